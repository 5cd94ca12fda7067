package models

import "time"

// FileRecord describes one uploaded file, keyed by FileID in the file table.
// Owner is also the hash key of the OwnerIndex secondary index.
//
// StorageKey is derived as "owner/filename" and is NOT unique across
// records: re-uploading the same filename overwrites the object while a new
// record is written, so two records can point at a key whose content
// reflects only the latest write.
type FileRecord struct {
	FileID      string    `dynamodbav:"file_id"`
	FileName    string    `dynamodbav:"filename"`
	StorageKey  string    `dynamodbav:"s3_key"`
	Size        int64     `dynamodbav:"size"`
	UploadDate  time.Time `dynamodbav:"upload_date"`
	Owner       string    `dynamodbav:"owner"`
	Description string    `dynamodbav:"description"`
}
