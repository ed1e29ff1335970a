package models

import (
	"encoding/json"
	"testing"
)

func TestPersonToDto(t *testing.T) {
	person := &Person{ID: 7, FirstName: "Ada", LastName: "Lovelace"}

	dto := person.ToDto()
	if dto.ID != 7 || dto.FirstName != "Ada" || dto.LastName != "Lovelace" {
		t.Errorf("ToDto() = %+v, want id 7 Ada Lovelace", dto)
	}

	if person.GetDisplayName() != "Ada Lovelace" {
		t.Errorf("Expected display name 'Ada Lovelace', got '%s'", person.GetDisplayName())
	}
}

func TestPersonApplyKeepsID(t *testing.T) {
	person := &Person{ID: 3, FirstName: "Grace", LastName: "Murray"}

	person.Apply(&PersonDto{ID: 99, FirstName: "Grace", LastName: "Hopper"})

	if person.ID != 3 {
		t.Errorf("Apply() changed ID to %d", person.ID)
	}
	if person.LastName != "Hopper" {
		t.Errorf("LastName = %s, want Hopper", person.LastName)
	}
}

func TestCreatePersonDtoDecoding(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		first string
		last  string
	}{
		{"camel case", `{"firstName":"Ada","lastName":"Lovelace"}`, "Ada", "Lovelace"},
		{"pascal case", `{"FirstName":"Ada","LastName":"Lovelace"}`, "Ada", "Lovelace"},
		{"missing fields", `{}`, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dto CreatePersonDto
			if err := json.Unmarshal([]byte(tt.body), &dto); err != nil {
				t.Fatalf("Unmarshal() failed: %v", err)
			}
			if dto.FirstName != tt.first || dto.LastName != tt.last {
				t.Errorf("got %+v, want %s %s", dto, tt.first, tt.last)
			}

			entity := dto.ToEntity()
			if entity.ID != 0 {
				t.Errorf("new entity should not carry an ID, got %d", entity.ID)
			}
		})
	}
}

func TestToPersonDtosEmpty(t *testing.T) {
	dtos := ToPersonDtos(nil)
	if dtos == nil {
		t.Fatal("ToPersonDtos(nil) returned nil, want empty slice")
	}

	body, err := json.Marshal(dtos)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if string(body) != "[]" {
		t.Errorf("empty list encoded as %s, want []", body)
	}
}
