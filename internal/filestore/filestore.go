package filestore

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store keeps every generated file under one base directory:
//
//	<base>/uploads/              event design images (design_<eventID><ext>)
//	<base>/tickets/              rendered tickets    (ticket_<identifier>.jpg)
//	<base>/tickets/qr_codes/     QR codes            (qr_<identifier>.png)
//
// The file names are part of the on-disk contract; external tooling reads
// them directly, so they must not change.
type Store struct {
	uploadsDir string
	ticketsDir string
	qrDir      string
}

// New creates the directory tree if absent and returns the store.
func New(baseDir string) (*Store, error) {
	s := &Store{
		uploadsDir: filepath.Join(baseDir, "uploads"),
		ticketsDir: filepath.Join(baseDir, "tickets"),
		qrDir:      filepath.Join(baseDir, "tickets", "qr_codes"),
	}
	for _, dir := range []string{s.uploadsDir, s.ticketsDir, s.qrDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return s, nil
}

// UploadsDir returns the event-design upload directory (static-mounted).
func (s *Store) UploadsDir() string { return s.uploadsDir }

// TicketsDir returns the rendered-ticket directory (static-mounted).
func (s *Store) TicketsDir() string { return s.ticketsDir }

// QRPath returns the canonical path for a ticket identifier's QR image.
func (s *Store) QRPath(identifier string) string {
	return filepath.Join(s.qrDir, "qr_"+identifier+".png")
}

// TicketPath returns the canonical path for a rendered ticket image.
func (s *Store) TicketPath(identifier string) string {
	return filepath.Join(s.ticketsDir, "ticket_"+identifier+".jpg")
}

// DesignPath returns the canonical path for an event's uploaded design.
func (s *Store) DesignPath(eventID uint, ext string) string {
	return filepath.Join(s.uploadsDir, fmt.Sprintf("design_%d%s", eventID, ext))
}

// Save writes data to path, overwriting any previous file, and returns
// the path as the stored reference.
func (s *Store) Save(data []byte, path string) (string, error) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Load reads a stored file back.
func (s *Store) Load(ref string) ([]byte, error) {
	return os.ReadFile(ref)
}

// Exists reports whether a stored reference still points at a file.
func (s *Store) Exists(ref string) bool {
	if ref == "" {
		return false
	}
	_, err := os.Stat(ref)
	return err == nil
}

// Delete removes a stored file. A missing file is not an error; callers
// treat any other failure as non-fatal and log it.
func (s *Store) Delete(ref string) error {
	if ref == "" {
		return nil
	}
	if err := os.Remove(ref); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
