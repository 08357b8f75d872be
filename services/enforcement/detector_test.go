package enforcement

import (
	"testing"

	"indastreet/models"

	"github.com/stretchr/testify/assert"
)

func TestCheckMessage(t *testing.T) {
	cases := []struct {
		msg  string
		typ  models.ViolationType
		want bool
	}{
		{"call me at 081234567890", models.ViolationPhoneDigits, true},
		{"nomor: +62 812 3456 7890", models.ViolationPhoneDigits, true},
		{"zero eight one two three four five six seven", models.ViolationPhoneWords, true},
		{"nol delapan satu dua tiga empat lima enam", models.ViolationPhoneWords, true},
		{"just whatsapp me later", models.ViolationWhatsApp, true},
		{"chat wa ya", models.ViolationWhatsApp, true},
		{"please call me tomorrow", models.ViolationPhrase, true},
		{"boleh minta no hp?", models.ViolationPhrase, true},
		{"follow my instagram bali_massage", models.ViolationSocial, true},
		{"ig: @ayu.spa", models.ViolationSocial, true},
		{"find me @ayuspa", models.ViolationSocial, true},
		{"send it to ayu@example.com", models.ViolationEmail, true},

		{"", "", false},
		{"See you at 3pm, the price is 250000", "", false},
		{"I will wait in line at the lobby", "", false},
		{"Thanks for the great massage!", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			res := CheckMessage(tc.msg)
			assert.Equal(t, tc.want, res.IsViolation)
			assert.Equal(t, tc.typ, res.ViolationType)
			if tc.want {
				assert.NotEmpty(t, res.DetectedContent)
				assert.Equal(t, WarningMessage, res.WarningMessage)
			}
		})
	}
}

func TestCheckMessage_DigitsWinOverPhrase(t *testing.T) {
	res := CheckMessage("call me at 081234567890")
	assert.Equal(t, "081234567890", res.DetectedContent)
}
