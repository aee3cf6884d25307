package session

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityValidate(t *testing.T) {
	tests := []struct {
		name   string
		id     Identity
		fields []string
	}{
		{"complete", Identity{Class: "YS1800", Name: "张三", ListNum: "List 10"}, nil},
		{"missing name", Identity{Class: "YS1800", ListNum: "1"}, []string{"Name"}},
		{"whitespace only", Identity{Class: "  ", Name: "张三", ListNum: "\t"}, []string{"Class", "ListNum"}},
		{"empty", Identity{}, []string{"Class", "Name", "ListNum"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var idErr *IdentityError
			require.True(t, errors.As(err, &idErr))
			assert.Equal(t, tt.fields, idErr.Fields)

			var verrs validator.ValidationErrors
			assert.True(t, errors.As(err, &verrs))
		})
	}
}

func TestIdentityHelpers(t *testing.T) {
	id := Identity{Class: " YS1800 ", Name: " 张三", ListNum: "List 10 "}.Normalize()
	assert.Equal(t, Identity{Class: "YS1800", Name: "张三", ListNum: "List 10"}, id)
	assert.Equal(t, "张三（YS1800 List:List 10）", id.String())
	assert.False(t, id.IsZero())
	assert.True(t, Identity{}.IsZero())
	assert.Equal(t, "张三", id.Student().Name)
}
