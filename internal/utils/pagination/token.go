package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

const fieldSeparator = "|"

// EncodeMultiFieldToken creates a URL-safe token with any number of string fields.
func EncodeMultiFieldToken(fields ...string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strings.Join(fields, fieldSeparator)))
}

// DecodeMultiFieldToken decodes a token into its component fields.
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	return strings.Split(string(decodedBytes), fieldSeparator), nil
}

// EncodeClosingToken creates a keyset token for closings ordered by closed_at DESC, job_id.
func EncodeClosingToken(closedAt time.Time, jobID string) string {
	return EncodeMultiFieldToken(closedAt.UTC().Format(timeFormat), jobID)
}

// DecodeClosingToken parses a token built by EncodeClosingToken.
func DecodeClosingToken(token string) (time.Time, string, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return time.Time{}, "", err
	}
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (split)")
	}

	closedAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (closed_at parse): %w", err)
	}
	return closedAt, parts[1], nil
}
