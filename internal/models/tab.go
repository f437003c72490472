package models

import (
	"fmt"
	"strings"

	apperrors "github.com/getmentor/mentor-application-api/pkg/errors"
)

// Tab identifies one section of the application wizard
type Tab string

const (
	TabPersonal     Tab = "personal"
	TabProfessional Tab = "professional"
	TabExpertise    Tab = "expertise"
	TabCommitment   Tab = "commitment"
)

// ErrUnknownTab is returned for tab identifiers outside the wizard
var ErrUnknownTab = fmt.Errorf("unknown tab: %w", apperrors.ErrInvalidInput)

// Tabs lists the wizard sections in display order
func Tabs() []Tab {
	return []Tab{TabPersonal, TabProfessional, TabExpertise, TabCommitment}
}

// ParseTab converts a raw identifier into a Tab
func ParseTab(raw string) (Tab, error) {
	tab := Tab(strings.TrimSpace(raw))
	if !tab.Valid() {
		return "", fmt.Errorf("%q: %w", raw, ErrUnknownTab)
	}
	return tab, nil
}

// Valid reports whether t is one of the four wizard sections
func (t Tab) Valid() bool {
	switch t {
	case TabPersonal, TabProfessional, TabExpertise, TabCommitment:
		return true
	}
	return false
}

// Next returns the tab the section's "Next" control leads to.
// The commitment tab is last and has no next tab.
func (t Tab) Next() (Tab, bool) {
	tabs := Tabs()
	for i, tab := range tabs {
		if tab == t && i+1 < len(tabs) {
			return tabs[i+1], true
		}
	}
	return "", false
}

func (t Tab) String() string {
	return string(t)
}
