package deck

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Color represents a card color. Wild cards carry NoColor.
type Color int

const (
	NoColor Color = iota
	Red
	Blue
	Green
	Yellow
)

// Colors lists the four playable colors in catalog order.
var Colors = [...]Color{Red, Blue, Green, Yellow}

// String returns the lowercase name of the color
func (c Color) String() string {
	switch c {
	case NoColor:
		return "none"
	case Red:
		return "red"
	case Blue:
		return "blue"
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	default:
		return "?"
	}
}

// Letter returns the single-letter abbreviation used in card codes
func (c Color) Letter() string {
	switch c {
	case Red:
		return "R"
	case Blue:
		return "B"
	case Green:
		return "G"
	case Yellow:
		return "Y"
	default:
		return ""
	}
}

// Valid reports whether c is one of the four playable colors
func (c Color) Valid() bool {
	return c >= Red && c <= Yellow
}

// ParseColor accepts a full color name or its letter, case-insensitively
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r", "red":
		return Red, nil
	case "b", "blue":
		return Blue, nil
	case "g", "green":
		return Green, nil
	case "y", "yellow":
		return Yellow, nil
	case "", "none":
		return NoColor, nil
	}
	return NoColor, fmt.Errorf("invalid color %q", s)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Type represents what a card does when played
type Type int

const (
	Number Type = iota
	Skip
	Reverse
	DrawTwo
	Wild
	WildDrawFour
)

var typeNames = [...]string{
	Number:       "number",
	Skip:         "skip",
	Reverse:      "reverse",
	DrawTwo:      "draw_two",
	Wild:         "wild",
	WildDrawFour: "wild_draw_four",
}

func (t Type) String() string {
	if t < Number || t > WildDrawFour {
		return "?"
	}
	return typeNames[t]
}

// IsWild reports whether the type is Wild or WildDrawFour
func (t Type) IsWild() bool {
	return t == Wild || t == WildDrawFour
}

// IsPenalty reports whether playing the type forces the next player to draw
func (t Type) IsPenalty() bool {
	return t == DrawTwo || t == WildDrawFour
}

func (t Type) MarshalText() ([]byte, error) {
	if t < Number || t > WildDrawFour {
		return nil, fmt.Errorf("invalid card type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	for i, name := range typeNames {
		if name == string(text) {
			*t = Type(i)
			return nil
		}
	}
	return fmt.Errorf("invalid card type %q", text)
}

// Score values for cards left in a losing hand.
const (
	ActionScore = 20
	WildScore   = 50
)

// Card is an immutable card value. ID distinguishes otherwise equal cards.
type Card struct {
	ID    string `json:"id"`
	Color Color  `json:"color"`
	Type  Type   `json:"type"`
	Value int    `json:"value"` // face value, only meaningful for Number cards
}

// NewNumber creates a numbered card with a fresh id
func NewNumber(color Color, value int) Card {
	return Card{ID: uuid.NewString(), Color: color, Type: Number, Value: value}
}

// NewAction creates a colored Skip, Reverse or DrawTwo card with a fresh id
func NewAction(color Color, t Type) Card {
	return Card{ID: uuid.NewString(), Color: color, Type: t}
}

// NewWild creates a Wild or WildDrawFour card with a fresh id
func NewWild(t Type) Card {
	return Card{ID: uuid.NewString(), Color: NoColor, Type: t}
}

// IsWild reports whether the card is a wild type
func (c Card) IsWild() bool {
	return c.Type.IsWild()
}

// Score returns the points the card is worth when left in a losing hand
func (c Card) Score() int {
	switch c.Type {
	case Number:
		return c.Value
	case Skip, Reverse, DrawTwo:
		return ActionScore
	case Wild, WildDrawFour:
		return WildScore
	default:
		return 0
	}
}

// Validate checks the color/type/value invariants
func (c Card) Validate() error {
	switch {
	case c.Type < Number || c.Type > WildDrawFour:
		return fmt.Errorf("card %s: invalid type %d", c.ID, int(c.Type))
	case c.Type.IsWild() && c.Color != NoColor:
		return fmt.Errorf("card %s: wild card must not have a color", c.ID)
	case !c.Type.IsWild() && !c.Color.Valid():
		return fmt.Errorf("card %s: %s card needs a color", c.ID, c.Type)
	case c.Type == Number && (c.Value < 0 || c.Value > 9):
		return fmt.Errorf("card %s: value %d out of range", c.ID, c.Value)
	case c.Type != Number && c.Value != 0:
		return fmt.Errorf("card %s: %s card has a value", c.ID, c.Type)
	}
	return nil
}

// String returns the short code of the card, e.g. "R7", "BS", "Y+2", "W+4"
func (c Card) String() string {
	switch c.Type {
	case Number:
		return c.Color.Letter() + strconv.Itoa(c.Value)
	case Skip:
		return c.Color.Letter() + "S"
	case Reverse:
		return c.Color.Letter() + "R"
	case DrawTwo:
		return c.Color.Letter() + "+2"
	case Wild:
		return "W"
	case WildDrawFour:
		return "W+4"
	default:
		return "??"
	}
}

// ParseCard parses a short card code (see Card.String) into a card with a fresh id
func ParseCard(s string) (Card, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	switch code {
	case "W":
		return NewWild(Wild), nil
	case "W+4":
		return NewWild(WildDrawFour), nil
	}
	if len(code) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}

	color, err := ParseColor(code[:1])
	if err != nil || !color.Valid() {
		return Card{}, fmt.Errorf("invalid card %q: bad color", s)
	}

	switch rest := code[1:]; rest {
	case "S":
		return NewAction(color, Skip), nil
	case "R":
		return NewAction(color, Reverse), nil
	case "+2":
		return NewAction(color, DrawTwo), nil
	default:
		if len(rest) != 1 || rest[0] < '0' || rest[0] > '9' {
			return Card{}, fmt.Errorf("invalid card %q: bad value", s)
		}
		return NewNumber(color, int(rest[0]-'0')), nil
	}
}

// MustParseCards parses whitespace separated card codes and panics on error.
// Intended for tests and fixtures.
func MustParseCards(s string) []Card {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		card, err := ParseCard(f)
		if err != nil {
			panic(err)
		}
		cards = append(cards, card)
	}
	return cards
}

// FormatCards joins card codes with spaces
func FormatCards(cards []Card) string {
	codes := make([]string, len(cards))
	for i, c := range cards {
		codes[i] = c.String()
	}
	return strings.Join(codes, " ")
}
