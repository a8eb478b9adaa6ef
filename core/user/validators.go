package user

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/Luis-AP/gespro/core"
)

var (
	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to user attributes"
)

func init() {
	core.Validate.RegisterStructValidation(newStudentStructValidation, NewStudent{})
	core.RegisterCustomTranslation(pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(pwdAttrSimTag, pwdAttrSimText)
}

func newStudentStructValidation(sl validator.StructLevel) {
	if ns, ok := sl.Current().Interface().(NewStudent); ok {
		if ns.Password != "" {
			validatePassword(ns.Password, ns.FirstName, ns.LastName, ns.Email, sl)
		}
	}
}

// validatePassword applies the password policy to the provided password:
// - minLen: 8
// - no whitespace
// - not all numeric
// - no user attrs similarity
func validatePassword(pwd, firstName, lastName, email string, sl validator.StructLevel) {
	reportErr := func(tag string) {
		sl.ReportError(pwd, "password", "Password", tag, "")
	}

	pwdLen := len(pwd)
	if pwdLen < pwdMinLen {
		reportErr(pwdMinLenTag)
		return
	}

	var digitCount int
	for _, char := range pwd {
		if unicode.IsSpace(char) {
			reportErr(pwdNoSpaceTag)
			return
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
	}
	if digitCount == pwdLen {
		reportErr(pwdNotAllNumTag)
		return
	}

	getRatio := func(pass, usrAttr string) float64 {
		if usrAttr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(pass, ""), strings.Split(usrAttr, "")).QuickRatio()
	}
	lpwd := strings.ToLower(pwd)
	if getRatio(lpwd, strings.ToLower(firstName)) >= pwdMaxSim ||
		getRatio(lpwd, strings.ToLower(lastName)) >= pwdMaxSim ||
		getRatio(lpwd, strings.ToLower(email)) >= pwdMaxSim {
		reportErr(pwdAttrSimTag)
		return
	}
}
