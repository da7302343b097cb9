// Package deck manages decks and the cards they contain.
package deck

import "time"

// DefaultCreator owns decks created from the command line.
const DefaultCreator = "local-user"

type Deck struct {
	ID          string
	Title       string
	Description string
	Creator     string
	CardCount   int
	CreatedAt   time.Time
}

// CardInput is the content of a card before it is scheduled.
type CardInput struct {
	Question string `yaml:"question" validate:"required"`
	Answer   string `yaml:"answer" validate:"required"`
}

// Definition describes a deck in an import file.
type Definition struct {
	Title       string      `yaml:"title" validate:"required"`
	Description string      `yaml:"description"`
	Cards       []CardInput `yaml:"cards" validate:"dive"`
}
