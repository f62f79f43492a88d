package advisor

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dvloznov/finsight/internal/domain"
)

var (
	ErrUnparsedCommand = errors.New("could not understand voice command")
	ErrUnknownCategory = errors.New("category not recognized")
)

// Command grammar: "(expense|income) <amount> for <category> [description]",
// e.g. "expense 12.50 for food lunch with friends".
var commandPattern = regexp.MustCompile(`(?i)(expense|income)\s+([\d.]+)\s+for\s+(\w+)\s*(.*)`)

// ParseVoiceCommand maps a transcribed command into a transaction draft
// dated now. The category must resolve into the taxonomy and be eligible for
// the spoken type; otherwise the command is rejected, never defaulted.
func ParseVoiceCommand(text string, now time.Time) (domain.Transaction, error) {
	m := commandPattern.FindStringSubmatch(text)
	if m == nil {
		return domain.Transaction{}, fmt.Errorf("%w: %q", ErrUnparsedCommand, text)
	}

	typ := domain.TransactionType(strings.ToLower(m[1]))
	amount, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: bad amount %q", ErrUnparsedCommand, m[2])
	}

	category, ok := domain.FindCategory(m[3])
	if !ok || !category.ValidForType(typ) {
		return domain.Transaction{}, fmt.Errorf("%w: %q for type %s", ErrUnknownCategory, m[3], typ)
	}

	description := strings.TrimSpace(m[4])
	if description == "" {
		description = string(category)
	}

	return domain.Transaction{
		Date:        now,
		Description: description,
		Amount:      amount,
		Type:        typ,
		Category:    category,
		Currency:    domain.DefaultCurrency,
	}, nil
}
