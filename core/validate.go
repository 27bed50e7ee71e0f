package core

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// lowercase field names so validation messages match the wire casing
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		return strings.ToLower(field.Name)
	})
}

// LoginInput is the caller input for establishing a session.
type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

func (in *LoginInput) Validate() error {
	return asValidationError(validate.Struct(in))
}

// RegisterInput is the caller input for creating an account. Registration
// does not establish a session; a login must follow.
type RegisterInput struct {
	Username string `validate:"required"`
	Password string `validate:"required,min=4"`
	Email    string `validate:"required,email"`
}

func (in *RegisterInput) Validate() error {
	return asValidationError(validate.Struct(in))
}

// CreateRoomInput is the caller input for creating a room.
type CreateRoomInput struct {
	Name     string `validate:"required"`
	IsPublic bool
}

func (in *CreateRoomInput) Validate() error {
	return asValidationError(validate.Struct(in))
}

// asValidationError maps validator output onto the client error taxonomy.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return NewError(KindValidation, "invalid input")
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return NewError(KindValidation, "invalid "+strings.Join(fields, ", "))
}
