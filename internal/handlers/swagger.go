package handlers

// @title People API
// @version 1.0
// @description Person records served by a method-dispatching function and an entity route table

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @tag.name people
// @tag.description Entity route table

// @tag.name function
// @tag.description Method-dispatching people function

// @tag.name health
// @tag.description Operational endpoints
