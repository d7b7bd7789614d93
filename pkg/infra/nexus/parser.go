package nexus

import (
	"html"
	"regexp"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/model"
)

// Nexus responses have a stable shape, so the few fields needed are scraped
// with patterns instead of a full XML decoder.
var (
	statusPattern         = regexp.MustCompile(`<type>([a-zA-Z0-9\-_.]+)</type>`)
	repositoryIDPattern   = regexp.MustCompile(`<stagedRepositoryId>([a-zA-Z0-9\-_]+)</stagedRepositoryId>`)
	failureMessagePattern = regexp.MustCompile(`<name>failureMessage</name>\s*<value>(.*?)</value>`)
	httpStatusPattern     = regexp.MustCompile(`(?m)^HTTP/[0-9.]+ ([0-9]{3})`)
)

const maxBodyInError = 2048

func truncate(body string) string {
	if len(body) <= maxBodyInError {
		return body
	}
	return body[:maxBodyInError] + "..."
}

// ExtractStatus returns the text of the first <type> element
func ExtractStatus(body string) (string, error) {
	m := statusPattern.FindStringSubmatch(body)
	if m == nil {
		return "", goerr.Wrap(model.ErrParse, "no <type> element in repository response",
			goerr.V("body", truncate(body)))
	}
	return m[1], nil
}

// ExtractStagedRepositoryID returns the repository id from a start response
func ExtractStagedRepositoryID(body string) (string, error) {
	m := repositoryIDPattern.FindStringSubmatch(body)
	if m == nil {
		return "", goerr.Wrap(model.ErrParse, "no <stagedRepositoryId> element in start response",
			goerr.V("body", truncate(body)))
	}
	return m[1], nil
}

// ExtractFailureMessages returns the value of every failureMessage property
// in document order. It returns an empty slice when there is none.
func ExtractFailureMessages(body string) []string {
	matches := failureMessagePattern.FindAllStringSubmatch(body, -1)
	messages := make([]string, 0, len(matches))
	for _, m := range matches {
		messages = append(messages, html.UnescapeString(m[1]))
	}
	return messages
}

// ExtractHTTPStatus returns the code of the last HTTP status line in a
// response printed with curl -i. Redirects and 100 Continue produce more
// than one status line.
func ExtractHTTPStatus(response string) (int, bool) {
	matches := httpStatusPattern.FindAllStringSubmatch(response, -1)
	if len(matches) == 0 {
		return 0, false
	}
	code, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil {
		return 0, false
	}
	return code, true
}
