package models

// FileAttachment is the typed payload exchanged with the file store
// collaborator: metadata plus raw bytes.
type FileAttachment struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data,omitempty"`
}
