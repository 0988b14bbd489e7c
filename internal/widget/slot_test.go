package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "backslash fake path",
			raw:  `C:\fakepath\photo.jpg`,
			want: "photo.jpg",
		},
		{
			name: "lowercase marker",
			raw:  `c:\fakepath\photo.jpg`,
			want: "photo.jpg",
		},
		{
			name: "forward slash marker",
			raw:  `C:/fakepath/photo.jpg`,
			want: "photo.jpg",
		},
		{
			name: "plain filename unchanged",
			raw:  "photo.jpg",
			want: "photo.jpg",
		},
		{
			name: "unix path unchanged",
			raw:  "/home/user/photo.jpg",
			want: "/home/user/photo.jpg",
		},
		{
			name: "marker in the middle is not stripped",
			raw:  `uploads\C:\fakepath\photo.jpg`,
			want: `uploads\C:\fakepath\photo.jpg`,
		},
		{
			name: "empty value",
			raw:  "",
			want: "",
		},
		{
			name: "value shorter than marker",
			raw:  "a.png",
			want: "a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeValue(tt.raw))
		})
	}
}

func TestSlotSetRetainsPrevious(t *testing.T) {
	s := &Slot{position: 1}
	assert.False(t, s.Filled())

	s.set("a.png")
	assert.Equal(t, "a.png", s.Value())
	assert.Equal(t, "", s.Previous())
	assert.True(t, s.Filled())

	s.set("b.png")
	assert.Equal(t, "b.png", s.Value())
	assert.Equal(t, "a.png", s.Previous())

	s.set("")
	assert.False(t, s.Filled())
	assert.Equal(t, "b.png", s.Previous())
	assert.Equal(t, 1, s.Position())
}

func TestNewSlotSet(t *testing.T) {
	slots := newSlotSet(Config{NumberOfFiles: 3})
	assert.Len(t, slots, 3)
	for i, s := range slots {
		assert.Equal(t, i, s.Position())
		assert.False(t, s.Filled())
	}

	slots = newSlotSet(Config{NumberOfFiles: 3, Progressive: true})
	assert.Len(t, slots, 1)
}
