package models

// UploadedFile describes a stored upload in the shape clients already read.
type UploadedFile struct {
	FieldName    string `json:"fieldname"`
	OriginalName string `json:"originalname"`
	MimeType     string `json:"mimetype"`
	Filename     string `json:"filename"`
	Size         int64  `json:"size"`
}
