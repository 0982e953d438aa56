package logger

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldDocumentID is the structured log field key for a backend document id.
	FieldDocumentID = "document_id"
	// FieldDocumentType is the structured log field key for the uploaded document type.
	FieldDocumentType = "document_type"
	// FieldFileName is the structured log field key for the local file name.
	FieldFileName = "file_name"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger is replaced with a no-op one.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// UploadFields returns the fields describing a single upload. A zero document
// id means the backend has not accepted the document yet and is omitted.
func UploadFields(fileName, documentType string, documentID int64) []zap.Field {
	fields := StringFields(
		StringField{Key: FieldFileName, Value: fileName},
		StringField{Key: FieldDocumentType, Value: documentType},
	)
	if documentID > 0 {
		fields = append(fields, zap.String(FieldDocumentID, strconv.FormatInt(documentID, 10)))
	}

	return fields
}

// WithUpload attaches the upload fields to the provided logger.
func WithUpload(logger *zap.Logger, fileName, documentType string, documentID int64) *zap.Logger {
	return WithFields(logger, UploadFields(fileName, documentType, documentID)...)
}
