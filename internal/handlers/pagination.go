package handlers

import (
	"strconv"
	"strings"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func parsePositiveInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
