package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"codeberg.org/snonux/wordcard/internal/render"
)

var validate = validator.New()

// Identity names the student a deck is made for
type Identity struct {
	Class   string `json:"class" validate:"required,max=64"`
	Name    string `json:"name" validate:"required,max=64"`
	ListNum string `json:"list_num" validate:"required,max=64"`
}

// IdentityError lists the identity fields that failed validation
type IdentityError struct {
	Fields []string
	Err    error
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("invalid student information: %s", strings.Join(e.Fields, ", "))
}

func (e *IdentityError) Unwrap() error {
	return e.Err
}

// Normalize trims all fields
func (id Identity) Normalize() Identity {
	return Identity{
		Class:   strings.TrimSpace(id.Class),
		Name:    strings.TrimSpace(id.Name),
		ListNum: strings.TrimSpace(id.ListNum),
	}
}

// Validate checks that all fields are present after trimming
func (id Identity) Validate() error {
	err := validate.Struct(id.Normalize())
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate identity: %w", err)
	}
	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fe.Field()
	}
	return &IdentityError{Fields: fields, Err: err}
}

// IsZero reports whether no student is selected
func (id Identity) IsZero() bool {
	return id == Identity{}
}

// Student converts the identity for the renderer
func (id Identity) Student() render.Student {
	return render.Student{Class: id.Class, Name: id.Name, ListNum: id.ListNum}
}

// String formats the identity as shown in status messages
func (id Identity) String() string {
	return fmt.Sprintf("%s（%s List:%s）", id.Name, id.Class, id.ListNum)
}
