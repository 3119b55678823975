package school

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/vikasdeshmukh63/school-application-dashboard/core"
)

var (
	genderTag  = "gender"
	genderText = "must be one of MALE or FEMALE"

	weekdayTag  = "weekday"
	weekdayText = "must be a school day (MONDAY through FRIDAY)"

	// password policy for identity-provider accounts
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdComplexityTag  = "pwdcplx"
	pwdComplexityText = "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character"
	specialRegex      = regexp.MustCompile("[^A-Za-z0-9]")

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to user attributes"
)

func init() {
	// register validators
	_ = core.Validate.RegisterValidation(genderTag, genderValidation)
	core.RegisterCustomTranslation(genderTag, genderText)

	_ = core.Validate.RegisterValidation(weekdayTag, weekdayValidation)
	core.RegisterCustomTranslation(weekdayTag, weekdayText)

	core.Validate.RegisterStructValidation(personStructValidation,
		NewTeacher{}, UpdateTeacher{}, NewStudent{}, UpdateStudent{}, NewParent{}, UpdateParent{})
	core.RegisterCustomTranslation(pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(pwdComplexityTag, pwdComplexityText)
	core.RegisterCustomTranslation(pwdAttrSimTag, pwdAttrSimText)
}

// Custom Validators

func genderValidation(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case GenderMale, GenderFemale:
		return true
	}
	return false
}

func weekdayValidation(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday:
		return true
	}
	return false
}

// personStructValidation applies the password policy to people payloads
// before their credentials are shipped to the identity provider. Update
// payloads with an empty password skip it (the password stays unchanged).
func personStructValidation(sl validator.StructLevel) {
	switch p := sl.Current().Interface().(type) {
	case NewTeacher:
		validatePassword(p.Password, p.Name, p.Username, p.Email, sl)
	case NewStudent:
		validatePassword(p.Password, p.Name, p.Username, p.Email, sl)
	case NewParent:
		validatePassword(p.Password, p.Name, p.Username, p.Email, sl)
	case UpdateTeacher:
		if p.Password != "" {
			validatePassword(p.Password, p.Name, p.Username, p.Email, sl)
		}
	case UpdateStudent:
		if p.Password != "" {
			validatePassword(p.Password, p.Name, p.Username, p.Email, sl)
		}
	case UpdateParent:
		if p.Password != "" {
			validatePassword(p.Password, p.Name, p.Username, p.Email, sl)
		}
	}
}

// validatePassword applies the password policy to provided password:
// - minLen: 8
// - no whitespace
// - no all numeric
// - complexity: 1 upper, 1 lower, 1 digit, 1 special
// - no user attrs similarity
func validatePassword(pwd, name, uname, email string, sl validator.StructLevel) {
	reportErr := func(tag string) {
		sl.ReportError(pwd, "password", "Password", tag, "")
	}

	var (
		digitCount                             int
		hasUpper, hasLower, hasDig, hasSpecial bool
	)

	pwdLen := len(pwd)
	if pwdLen < pwdMinLen {
		reportErr(pwdMinLenTag)
		return
	}
	for _, char := range []rune(pwd) {
		if unicode.IsSpace(char) {
			reportErr(pwdNoSpaceTag)
			return
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
		if !hasUpper && unicode.IsUpper(char) {
			hasUpper = true
		}
		if !hasLower && unicode.IsLower(char) {
			hasLower = true
		}
	}

	if digitCount == pwdLen {
		reportErr(pwdNotAllNumTag)
		return
	}

	hasDig = digitCount > 0
	hasSpecial = specialRegex.MatchString(pwd)
	if !(hasUpper && hasLower && hasDig && hasSpecial) {
		reportErr(pwdComplexityTag)
		return
	}

	getRatio := func(pass, usrAttr string) float64 {
		if usrAttr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(pass, ""), strings.Split(usrAttr, "")).QuickRatio()
	}
	if getRatio(pwd, name) >= pwdMaxSim ||
		getRatio(pwd, uname) >= pwdMaxSim ||
		getRatio(pwd, email) >= pwdMaxSim {
		reportErr(pwdAttrSimTag)
		return
	}
}
