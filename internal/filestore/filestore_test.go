package filestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreatesDirectoryTree(t *testing.T) {
	base := t.TempDir()
	s, err := New(base)
	require.NoError(t, err)

	for _, dir := range []string{s.UploadsDir(), s.TicketsDir(), filepath.Join(s.TicketsDir(), "qr_codes")} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestPathNamingContract(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	id := "TKT-20250614193042-9F3A61C08B"
	assert.Equal(t, "qr_"+id+".png", filepath.Base(s.QRPath(id)))
	assert.Equal(t, "ticket_"+id+".jpg", filepath.Base(s.TicketPath(id)))
	assert.Equal(t, "design_7.png", filepath.Base(s.DesignPath(7, ".png")))
}

func TestSaveLoadExistsDelete(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	ref, err := s.Save([]byte("payload"), s.QRPath("X"))
	require.NoError(t, err)
	assert.True(t, s.Exists(ref))

	data, err := s.Load(ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	require.NoError(t, s.Delete(ref))
	assert.False(t, s.Exists(ref))
}

func TestDeleteMissingFileIsNotAnError(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, s.Delete(s.TicketPath("NEVER-EXISTED")))
	assert.NoError(t, s.Delete(""))
}

func TestSaveOverwrites(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	path := s.TicketPath("X")
	_, err = s.Save([]byte("first"), path)
	require.NoError(t, err)
	_, err = s.Save([]byte("second"), path)
	require.NoError(t, err)

	data, err := s.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
}
