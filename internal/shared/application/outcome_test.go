package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	t.Run("success carries value", func(t *testing.T) {
		o := Success(42)

		assert.True(t, o.IsSuccess())
		assert.False(t, o.IsFailure())
		assert.Equal(t, 42, o.Value())
		assert.Empty(t, o.Message())
	})

	t.Run("failure is explicit", func(t *testing.T) {
		o := Failure[string]("Album not found")

		assert.False(t, o.IsSuccess())
		assert.Equal(t, "Album not found", o.Message())
		assert.Equal(t, FailureGeneric, o.Kind())
		assert.Empty(t, o.Value())
	})

	t.Run("failure with kind", func(t *testing.T) {
		o := FailureOf[int](FailureNotFound, "missing")

		assert.True(t, o.IsFailure())
		assert.Equal(t, FailureNotFound, o.Kind())
	})

	t.Run("zero value is not a success", func(t *testing.T) {
		var o Outcome[int]
		assert.False(t, o.IsSuccess())
	})

	t.Run("invalid combines field failures", func(t *testing.T) {
		o := Invalid[int]([]ValidationFailure{
			{Field: "Name", Message: "Album name is required"},
		})

		assert.True(t, o.IsFailure())
		assert.Equal(t, FailureValidation, o.Kind())
		assert.Equal(t, "Name: Album name is required", o.Message())
		assert.Len(t, o.Failures(), 1)
	})
}

func TestResult(t *testing.T) {
	assert.True(t, Ok().IsSuccess())

	r := Fail("Unauthorized: album belongs to another user")
	assert.True(t, r.IsFailure())
	assert.Equal(t, "Unauthorized: album belongs to another user", r.Message())

	r = FailWith(FailureUnauthorized, "denied")
	assert.Equal(t, FailureUnauthorized, r.Kind())

	r = InvalidResult([]ValidationFailure{{Field: "Name", Message: "bad"}})
	assert.Equal(t, FailureValidation, r.Kind())
	assert.Equal(t, "Name: bad", r.Message())
}

func TestResponseInterface(t *testing.T) {
	responses := []Response{Success("x"), Ok(), Failure[int]("no"), Fail("no")}
	successes := 0
	for _, r := range responses {
		if r.IsSuccess() {
			successes++
		}
	}
	assert.Equal(t, 2, successes)
}

func TestFailureKind_String(t *testing.T) {
	assert.Equal(t, "generic", FailureGeneric.String())
	assert.Equal(t, "validation", FailureValidation.String())
	assert.Equal(t, "not_found", FailureNotFound.String())
	assert.Equal(t, "unauthorized", FailureUnauthorized.String())
}

func TestRequestKind(t *testing.T) {
	assert.True(t, KindCommand.IsMutating())
	assert.False(t, KindQuery.IsMutating())
	assert.Equal(t, "command", KindCommand.String())
	assert.Equal(t, "query", KindQuery.String())
}
