package project

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/Luis-AP/gespro/core"
)

var (
	repoURLTag  = "repo_url"
	repoURLText = "invalid repository URL format"

	// Git-hosting URL shape: optional scheme, optional www., host.tld,
	// /owner/repo, optional .git suffix, optional trailing slash.
	repoURLRegex = regexp.MustCompile(`^(https?://)?(www\.)?[\w\-]+\.\w+/[\w\-]+/[\w\-]+(\.git)?/?$`)
)

func init() {
	_ = core.Validate.RegisterValidation(repoURLTag, repoURLValidation)
	core.RegisterCustomTranslation(repoURLTag, repoURLText)
}

func repoURLValidation(fl validator.FieldLevel) bool {
	if url, ok := fl.Field().Interface().(string); ok {
		return ValidRepositoryURL(url)
	}
	return false
}

// ValidRepositoryURL reports whether url looks like a Git-hosting repository URL.
func ValidRepositoryURL(url string) bool {
	return repoURLRegex.MatchString(url)
}
