// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package printer

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPrinterOutput(t *testing.T) {
	// Pin color off so the assertions see plain text regardless of the
	// test environment.
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	p := New(&buf)

	p.Successf("installed %s\n", "@stacklok/go-style")
	p.Warnf("optional member failed: %s\n", "@stacklok/flaky")
	p.Stepf("resolving %s\n", "stacklok/starter")
	p.Printf("%d files\n", 3)
	p.Println("done")

	want := "✓ installed @stacklok/go-style\n" +
		"! optional member failed: @stacklok/flaky\n" +
		"→ resolving stacklok/starter\n" +
		"3 files\n" +
		"done\n"
	assert.Equal(t, want, buf.String())
}
