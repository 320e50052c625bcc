// Package sizeparse extracts an installed-size estimate in gigabytes from
// the free-text minimum requirements published on store pages. The text is
// third-party HTML with no stable structure, so everything here is a
// defined-failure parser: raw text in, tagged size-or-failure out.
package sizeparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Failure enumerates the ways extraction can fail for one item.
type Failure string

const (
	// FailureNone means the size was extracted successfully.
	FailureNone Failure = ""
	// FailureMissingField means the requirements text was absent upstream.
	FailureMissingField Failure = "requirements field missing"
	// FailureNoMatch means no storage label/size pattern was found.
	FailureNoMatch Failure = "no storage pattern match"
	// FailureBadMagnitude means the matched magnitude was not numeric.
	FailureBadMagnitude Failure = "malformed magnitude"
	// FailureUnknownUnit means the matched unit is outside the known set.
	FailureUnknownUnit Failure = "unrecognized unit"
	// FailureUnresolved means the item never had an identifier to look up.
	FailureUnresolved Failure = "unresolved identifier"
)

// Size is the tagged result of one extraction.
type Size struct {
	GB      float64
	Failure Failure
}

// OK reports whether the extraction succeeded.
func (s Size) OK() bool {
	return s.Failure == FailureNone
}

// Sentinel collapses the tagged result into the legacy numeric form:
// the gigabyte value on success, -1 on any failure.
func (s Size) Sentinel() float64 {
	if s.OK() {
		return s.GB
	}
	return -1
}

func failed(reason Failure) Size {
	return Size{Failure: reason}
}

// sizePattern finds a storage label followed by a magnitude and unit within
// a short lookahead. Label and unit letters are case-sensitive: the store
// writes "Storage: 7 GB available space", "Drive:750 MB", "Space: 2TB" and
// similar, but "storage" in prose is not a label.
var sizePattern = regexp.MustCompile(`(Storage:|Space:|Drive:)[^\d]*(\d+ ?[kKMGT]?B)`)

// digitSplit separates a run-together magnitude+unit token like "750MB".
var digitSplit = regexp.MustCompile(`(\d+)`)

// Parse extracts a size from plain requirements text.
func Parse(text string) Size {
	match := sizePattern.FindStringSubmatch(text)
	if match == nil {
		return failed(FailureNoMatch)
	}

	token := match[len(match)-1]

	// The magnitude and unit are either space-separated or run together
	var magnitude, unit string
	if strings.Contains(token, " ") {
		parts := strings.SplitN(token, " ", 2)
		magnitude, unit = parts[0], parts[1]
	} else {
		parts := digitSplit.Split(token, 2)
		matches := digitSplit.FindStringSubmatch(token)
		if len(parts) < 2 || matches == nil {
			return failed(FailureBadMagnitude)
		}
		magnitude, unit = matches[1], parts[1]
	}

	value, err := strconv.ParseFloat(magnitude, 64)
	if err != nil {
		return failed(FailureBadMagnitude)
	}

	switch unit {
	case "TB":
		return Size{GB: value * 1000}
	case "GB":
		return Size{GB: value}
	case "MB":
		return Size{GB: value / 1_000}
	case "KB", "kB":
		return Size{GB: value / 1_000_000}
	case "B":
		return Size{GB: value / 1_000_000_000}
	default:
		return failed(FailureUnknownUnit)
	}
}

// ParseHTML strips markup from a requirements HTML fragment and parses the
// remaining text. An empty fragment is an upstream-data failure, handled
// the same way as a missing pattern rather than as an error.
func ParseHTML(fragment string) Size {
	if strings.TrimSpace(fragment) == "" {
		return failed(FailureMissingField)
	}

	text, err := stripHTML(fragment)
	if err != nil {
		return failed(FailureNoMatch)
	}

	return Parse(text)
}

func stripHTML(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}
	return doc.Text(), nil
}
