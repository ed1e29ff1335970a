package models

import (
	"strings"
)

// Person is the persisted person record
type Person struct {
	ID        int    `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	FirstName string `json:"firstName" gorm:"column:first_name;not null;default:''"`
	LastName  string `json:"lastName" gorm:"column:last_name;not null;default:''"`
}

// TableName maps Person onto the people table
func (Person) TableName() string {
	return "people"
}

// NewPerson creates a person that has not been persisted yet
func NewPerson(firstName, lastName string) *Person {
	return &Person{
		FirstName: firstName,
		LastName:  lastName,
	}
}

// GetDisplayName returns the name used in logs
func (p *Person) GetDisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// ToDto projects the entity onto its transfer shape
func (p *Person) ToDto() PersonDto {
	return PersonDto{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
	}
}

// Apply overwrites the mutable fields from a transfer object. The identifier is never touched.
func (p *Person) Apply(dto *PersonDto) {
	p.FirstName = dto.FirstName
	p.LastName = dto.LastName
}

// PersonDto is the read/update shape of a person
type PersonDto struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CreatePersonDto is the create shape of a person; the identifier is assigned by the datastore
type CreatePersonDto struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ToEntity builds a new, unsaved person from the create request
func (d *CreatePersonDto) ToEntity() *Person {
	return NewPerson(d.FirstName, d.LastName)
}

// ToPersonDtos maps a slice of entities field by field. Never returns nil.
func ToPersonDtos(people []Person) []PersonDto {
	dtos := make([]PersonDto, 0, len(people))
	for i := range people {
		dtos = append(dtos, people[i].ToDto())
	}
	return dtos
}
