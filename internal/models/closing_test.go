package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobClosingColumnsMatchValues(t *testing.T) {
	var m JobClosing
	assert.Len(t, m.Values(), len(JobClosingColumns))
	assert.Len(t, m.ScanTargets(), len(JobClosingColumns))
}
