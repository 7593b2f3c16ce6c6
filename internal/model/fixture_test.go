package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixtureFillSchedule(t *testing.T) {
	f := Fixture{StartTime: time.Date(2025, 10, 21, 23, 30, 0, 0, time.UTC)}
	f.FillSchedule()
	assert.Equal(t, "2025-10-21", f.GameDate)
	assert.Equal(t, "23:30:00", f.GameTime)

	kept := Fixture{StartTime: f.StartTime, GameDate: "2025-10-22", GameTime: "19:30:00"}
	kept.FillSchedule()
	assert.Equal(t, "2025-10-22", kept.GameDate)
	assert.Equal(t, "19:30:00", kept.GameTime)

	var empty Fixture
	empty.FillSchedule()
	assert.Empty(t, empty.GameDate)
}
