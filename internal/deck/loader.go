package deck

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"gopkg.in/yaml.v3"
)

// LoadDefinition reads a deck definition from a YAML file.
func LoadDefinition(path string) (*Definition, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open deck file %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	var def Definition
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&def); err != nil {
		return nil, fmt.Errorf("decode deck file %s: %w", path, err)
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("deck file %s: %w", path, err)
	}
	return &def, nil
}

// Validate rejects a definition without a title or with an empty question or answer.
func (d Definition) Validate() error {
	return validateStruct("deck", d)
}

func (c CardInput) Validate() error {
	return validateStruct("card", c)
}

func validateStruct(kind string, v any) error {
	validate := validator.New()
	enLocale := en.New()
	trans, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return fmt.Errorf("failed to register default translations: %w", err)
	}
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
	})

	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fe.Translate(trans))
	}
	return fmt.Errorf("invalid %s: %s", kind, strings.Join(messages, ", "))
}

// Import creates a deck with the definition's cards, all due at now.
func Import(ctx context.Context, repo Repository, def *Definition, now time.Time) (*Deck, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	d := &Deck{
		Title:       def.Title,
		Description: def.Description,
		Creator:     DefaultCreator,
		CreatedAt:   now,
	}
	if _, err := repo.Create(ctx, d, def.Cards); err != nil {
		return nil, fmt.Errorf("import deck %q: %w", def.Title, err)
	}
	return d, nil
}
