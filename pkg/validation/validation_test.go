package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-contact-backend/internal/domain"
	"portfolio-contact-backend/pkg/validation"
)

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestValidateContact_Boundaries(t *testing.T) {
	v := validation.New()

	t.Run("Should accept minimum lengths", func(t *testing.T) {
		vc, errs := validation.ValidateContact(v, domain.ContactRequest{
			Name: "Jo", Email: "a@b.com", Message: "1234567890",
		})
		require.Nil(t, errs)
		assert.Equal(t, "Jo", vc.Name)
		assert.Equal(t, "", vc.PhoneNumber)
	})

	t.Run("Should reject short name and short message together", func(t *testing.T) {
		_, errs := validation.ValidateContact(v, domain.ContactRequest{
			Name: "J", Email: "a@b.com", Message: "short",
		})
		assert.ElementsMatch(t, []string{"name", "message"}, keys(errs))
		assert.Equal(t, "Name must be between 2 and 255 characters.", errs["name"])
		assert.Equal(t, "Message must be between 10 and 5000 characters.", errs["message"])
	})

	t.Run("Should accept maximum lengths", func(t *testing.T) {
		_, errs := validation.ValidateContact(v, domain.ContactRequest{
			Name:        strings.Repeat("n", 255),
			Email:       "a@b.com",
			PhoneNumber: strings.Repeat("1", 30),
			Message:     strings.Repeat("m", 5000),
		})
		assert.Nil(t, errs)
	})

	t.Run("Should reject one past every maximum", func(t *testing.T) {
		_, errs := validation.ValidateContact(v, domain.ContactRequest{
			Name:        strings.Repeat("n", 256),
			Email:       strings.Repeat("e", 250) + "@b.com",
			PhoneNumber: strings.Repeat("1", 31),
			Message:     strings.Repeat("m", 5001),
		})
		assert.ElementsMatch(t, []string{"name", "email", "phone_number", "message"}, keys(errs))
		assert.Equal(t, "Phone number must not exceed 30 characters.", errs["phone_number"])
	})

	t.Run("Should report missing email as required", func(t *testing.T) {
		_, errs := validation.ValidateContact(v, domain.ContactRequest{
			Name: "Alice", Message: "A long enough message",
		})
		assert.Equal(t, map[string]string{"email": "Email is required."}, errs)
	})

	t.Run("Should reject malformed email", func(t *testing.T) {
		_, errs := validation.ValidateContact(v, domain.ContactRequest{
			Name: "Alice", Email: "invalid-email", Message: "A long enough message",
		})
		assert.Equal(t, "A valid email is required.", errs["email"])
	})
}

func TestValidateContact_Trimming(t *testing.T) {
	v := validation.New()

	t.Run("Should trim before measuring", func(t *testing.T) {
		_, errs := validation.ValidateContact(v, domain.ContactRequest{
			Name: "  J  ", Email: " a@b.com ", Message: "   123456789   ",
		})
		assert.ElementsMatch(t, []string{"name", "message"}, keys(errs))
	})

	t.Run("Should treat whitespace-only fields as missing", func(t *testing.T) {
		_, errs := validation.ValidateContact(v, domain.ContactRequest{
			Name: "   ", Email: "\t", Message: "\n\n",
		})
		assert.Equal(t, "Name is required.", errs["name"])
		assert.Equal(t, "Email is required.", errs["email"])
		assert.Equal(t, "Message is required.", errs["message"])
	})

	t.Run("Should return trimmed values", func(t *testing.T) {
		vc, errs := validation.ValidateContact(v, domain.ContactRequest{
			Name: " Alice ", Email: " alice@example.com\n", PhoneNumber: " +91 12345 ", Message: "  Hello there, world  ",
		})
		require.Nil(t, errs)
		assert.Equal(t, domain.ValidatedContact{
			Name: "Alice", Email: "alice@example.com", PhoneNumber: "+91 12345", Message: "Hello there, world",
		}, vc)
	})
}

func TestValidateContact_CountsCharactersNotBytes(t *testing.T) {
	v := validation.New()

	// "Zé" is two characters but three bytes; 255 "é" is 510 bytes.
	_, errs := validation.ValidateContact(v, domain.ContactRequest{
		Name: "Zé", Email: "a@b.com", Message: strings.Repeat("é", 10),
	})
	assert.Nil(t, errs)

	_, errs = validation.ValidateContact(v, domain.ContactRequest{
		Name: strings.Repeat("é", 255), Email: "a@b.com", Message: "こんにちは、お元気ですか",
	})
	assert.Nil(t, errs)
}

func TestFormatValidationErrors_NonValidationError(t *testing.T) {
	errs := validation.FormatValidationErrors(assert.AnError)
	assert.Equal(t, map[string]string{validation.NonFieldKey: assert.AnError.Error()}, errs)
}
