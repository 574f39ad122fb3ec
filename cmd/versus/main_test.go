package main

import (
	"testing"

	"github.com/Dosada05/versusite/brackets"
	"github.com/Dosada05/versusite/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog_JSON(t *testing.T) {
	data := []byte(`{"title": "Movies", "items": [{"content": "Alien"}, {"id": "x", "content": "https://youtu.be/dQw4w9WgXcQ", "type": "YOUTUBE"}]}`)

	c, err := loadCatalog(brackets.SequentialIDs("i"), data)
	require.NoError(t, err)
	assert.Equal(t, "Movies", c.Title)
	require.Len(t, c.Items, 2)
	assert.Equal(t, "i1", c.Items[0].ID)
	assert.Equal(t, models.ItemTypeVideoLink, c.Items[1].Type)
}

func TestLoadCatalog_PlainText(t *testing.T) {
	c, err := loadCatalog(brackets.SequentialIDs("i"), []byte("Alien\n\nAliens\n"))
	require.NoError(t, err)
	assert.Empty(t, c.Title)
	assert.Len(t, c.Items, 2)
}

func TestLoadCatalog_BrokenJSON(t *testing.T) {
	_, err := loadCatalog(brackets.SequentialIDs("i"), []byte(`{"title": "x"}`))
	assert.Error(t, err)
}

func TestRun_Usage(t *testing.T) {
	assert.Error(t, run(nil))
	assert.Error(t, run([]string{"/definitely/missing/file.txt"}))
}
