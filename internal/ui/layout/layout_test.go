package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestRenderHeaderFitsWidth(t *testing.T) {
	h := RenderHeader("ash", "Stage 2  10/150 XP", 80)
	assert.Contains(t, h, "Todomon")
	assert.Contains(t, h, "ash")
	assert.Contains(t, h, "Stage 2")
}

func TestRenderHeaderDropsTitleWhenCrowded(t *testing.T) {
	h := RenderHeader(strings.Repeat("x", 50), "Stage 2  10/150 XP", 60)
	assert.NotContains(t, h, "xxxxx")
	assert.Contains(t, h, "Stage 2")
}

func TestRenderFrameHeight(t *testing.T) {
	frame := RenderFrame(RenderHeader("t", "", 60), "body", RenderFooter([]KeyHint{{Key: "q", Description: "Quit"}}, 60), 60, 24)
	assert.Equal(t, 24, lipgloss.Height(frame))
	assert.Contains(t, frame, "Quit")
}

func TestIsTooSmall(t *testing.T) {
	assert.True(t, IsTooSmall(59, 30))
	assert.True(t, IsTooSmall(80, 19))
	assert.False(t, IsTooSmall(MinWidth, MinHeight))
}
