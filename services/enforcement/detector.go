package enforcement

import (
	"regexp"
	"strings"

	"indastreet/models"
)

const (
	WarningMessage = "Sharing contact information is prohibited. Violations may deactivate your account. " +
		"Use the platform's secure messaging system to communicate."
	RepeatedWarningMessage = "WARNING: Multiple contact sharing attempts detected. Your account has been flagged for review. " +
		"Further violations will result in account restriction."
	RestrictionMessage = "Your account has been restricted due to repeated attempts to share contact information. " +
		"Please contact support to appeal this restriction."
)

// ViolationCheckResult is the outcome of scanning one message.
type ViolationCheckResult struct {
	IsViolation     bool                 `json:"isViolation"`
	ViolationType   models.ViolationType `json:"violationType,omitempty"`
	DetectedContent string               `json:"detectedContent,omitempty"`
	WarningMessage  string               `json:"warningMessage,omitempty"`
}

type rule struct {
	typ      models.ViolationType
	patterns []*regexp.Regexp
	// accept filters raw matches; nil accepts all.
	accept func(match string) bool
}

var (
	nonDigit = regexp.MustCompile(`\D`)

	// Rules are checked in order; the first hit wins.
	rules = []rule{
		{
			typ: models.ViolationPhoneDigits,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b0\d{9,12}\b`),
				regexp.MustCompile(`\+?\d{1,4}[-.\s]?\d{2,4}[-.\s]?\d{3,4}[-.\s]?\d{3,4}\b`),
				regexp.MustCompile(`\b\d{3,4}[-.\s]?\d{3,4}[-.\s]?\d{3,4}\b`),
				regexp.MustCompile(`\b(?:62|08)\d{8,12}\b`),
			},
			accept: func(m string) bool {
				n := len(nonDigit.ReplaceAllString(m, ""))
				return n >= 8 && n <= 15
			},
		},
		{
			typ: models.ViolationPhoneWords,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(zero|one|two|three|four|five|six|seven|eight|nine)(\s+(zero|one|two|three|four|five|six|seven|eight|nine)){7,}\b`),
				regexp.MustCompile(`(?i)\b(nol|satu|dua|tiga|empat|lima|enam|tujuh|delapan|sembilan)(\s+(nol|satu|dua|tiga|empat|lima|enam|tujuh|delapan|sembilan)){7,}\b`),
				regexp.MustCompile(`(?i)\b(o|oh)\s*(eight|delapan)\s*(one|satu|two|dua|three|tiga)`),
			},
		},
		{
			typ: models.ViolationWhatsApp,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(whatsapp|whats\s*app|wa|w\.a|w/a)\b`),
				regexp.MustCompile(`(?i)\b(chat\s*wa|hubungi\s*wa|kontak\s*wa|nomor\s*wa)\b`),
				regexp.MustCompile(`(?i)\b(add\s*me\s*on\s*wa|tambah\s*wa)\b`),
			},
		},
		{
			typ: models.ViolationPhrase,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(call\s*me|my\s*number|my\s*phone|contact\s*me|text\s*me|message\s*me|reach\s*me)\b`),
				regexp.MustCompile(`(?i)\b(give\s*you\s*my\s*number|send\s*my\s*number|here'?s?\s*my\s*number)\b`),
				regexp.MustCompile(`(?i)\b(phone\s*number|cell\s*number|mobile\s*number)\b`),
				regexp.MustCompile(`(?i)\b(hubungi\s*saya|nomor\s*saya|telepon\s*saya|telp\s*saya|hp\s*saya)\b`),
				regexp.MustCompile(`(?i)\b(kontak\s*saya|no\s*hp|nomer\s*hp|nomor\s*hp|nomer\s*saya)\b`),
				regexp.MustCompile(`(?i)\b(chat\s*saya|sms\s*saya|kirim\s*pesan)\b`),
				regexp.MustCompile(`(?i)\b(ini\s*nomor|ini\s*no|ini\s*nomer)\b`),
			},
		},
		{
			typ: models.ViolationSocial,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(instagram|insta|telegram|facebook)\s*:?\s*@?\w+`),
				// Short names double as ordinary words and need an explicit marker.
				regexp.MustCompile(`(?i)\b(ig|tg|line|fb)\s*(:\s*@?|@)\w+`),
				regexp.MustCompile(`(?:^|\s)@\w{3,30}\b`),
			},
		},
		{
			typ: models.ViolationEmail,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
			},
		},
	}
)

// CheckMessage scans msg for contact details.
func CheckMessage(msg string) ViolationCheckResult {
	if strings.TrimSpace(msg) == "" {
		return ViolationCheckResult{}
	}
	for _, r := range rules {
		for _, p := range r.patterns {
			for _, m := range p.FindAllString(msg, -1) {
				if r.accept != nil && !r.accept(m) {
					continue
				}
				return ViolationCheckResult{
					IsViolation:     true,
					ViolationType:   r.typ,
					DetectedContent: strings.TrimSpace(m),
					WarningMessage:  WarningMessage,
				}
			}
		}
	}
	return ViolationCheckResult{}
}
