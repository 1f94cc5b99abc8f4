package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xavierca1/lead-intake/internal/entity"
)

const ConfirmKeyword = "confirm"

// Padrões tolerantes: dois-pontos opcional, valor até a quebra de linha.
var (
	nameRe     = regexp.MustCompile(`(?i)name:?\s*([^\n]+)`)
	ageRe      = regexp.MustCompile(`(?i)age:?\s*([^\n]+)`)
	countryRe  = regexp.MustCompile(`(?i)country:?\s*([^\n]+)`)
	interestRe = regexp.MustCompile(`(?i)(?:product )?interest:?\s*([^\n]+)`)
)

// ExtractLeadDetails faz o parse heurístico da resposta do agente.
// Primeiro match vence; campo sem match fica vazio.
func ExtractLeadDetails(message string) entity.LeadDetails {
	return entity.LeadDetails{
		Name:     firstMatch(nameRe, message),
		Age:      firstMatch(ageRe, message),
		Country:  firstMatch(countryRe, message),
		Interest: firstMatch(interestRe, message),
	}
}

func firstMatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func FormatConfirmation(d entity.LeadDetails) string {
	return fmt.Sprintf(
		"Great! Let's review the details you've provided:\n\n"+
			"Your name: %s\n"+
			"Age: %s\n"+
			"Country: %s\n"+
			"Product interest: %s\n\n"+
			"Please confirm if the above details are correct by typing '%s'.",
		d.Name, d.Age, d.Country, d.Interest, ConfirmKeyword,
	)
}

func IsConfirmation(message string) bool {
	return strings.ToLower(strings.TrimSpace(message)) == ConfirmKeyword
}
