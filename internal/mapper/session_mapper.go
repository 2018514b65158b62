package mapper

import (
	"math"
	"strconv"
	"strings"

	"ai-docchat-core/internal/dto"
	"ai-docchat-core/internal/entity"
	"ai-docchat-core/pkg/citation"
	"ai-docchat-core/pkg/preview"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToDocumentDTO(d entity.Document) dto.DocumentDTO {
	return dto.DocumentDTO{
		Id:         d.Id,
		Name:       d.Name,
		MimeType:   d.MimeType,
		TypeLabel:  TypeLabel(d.MimeType),
		SizeBytes:  d.SizeBytes,
		SizeLabel:  FormatFileSize(d.SizeBytes),
		UploadedAt: d.UploadedAt,
		Status:     d.Status,
	}
}

func (m *SessionMapper) ToDocumentDTOs(docs []entity.Document) []dto.DocumentDTO {
	out := make([]dto.DocumentDTO, 0, len(docs))
	for _, d := range docs {
		out = append(out, m.ToDocumentDTO(d))
	}
	return out
}

func (m *SessionMapper) ToMessageDTO(msg entity.ChatMessage) dto.MessageDTO {
	return dto.MessageDTO{
		Id:        msg.Id,
		Role:      msg.Role,
		Body:      msg.Body,
		CreatedAt: msg.CreatedAt,
		Citations: m.ToCitationDTOs(msg.Citations),
		Failed:    msg.Failed,
	}
}

func (m *SessionMapper) ToMessageDTOs(msgs []entity.ChatMessage) []dto.MessageDTO {
	out := make([]dto.MessageDTO, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, m.ToMessageDTO(msg))
	}
	return out
}

func (m *SessionMapper) ToCitationDTOs(refs []entity.CitationReference) []dto.CitationDTO {
	if len(refs) == 0 {
		return nil
	}
	out := make([]dto.CitationDTO, len(refs))
	for i, r := range refs {
		out[i] = dto.CitationDTO{
			DocumentName: r.DocumentName,
			Locator:      r.Locator,
			Source:       citation.FormatSource(r),
		}
	}
	return out
}

func (m *SessionMapper) ToPreviewDTO(doc entity.Document, citations []entity.CitationReference, view preview.View, warnings []citation.ResolutionWarning) *dto.PreviewDTO {
	segments := make([]dto.SegmentDTO, len(view.Segments))
	for i, s := range view.Segments {
		segments[i] = dto.SegmentDTO{
			Text:        s.Text,
			Highlighted: s.Kind == preview.SegmentHighlighted,
			Term:        s.Term,
		}
	}

	var warningTexts []string
	for _, w := range warnings {
		warningTexts = append(warningTexts, w.Error())
	}

	return &dto.PreviewDTO{
		DocumentId:   doc.Id,
		DocumentName: doc.Name,
		Citations:    m.ToCitationDTOs(citations),
		CitationList: view.CitationList,
		Segments:     segments,
		Warnings:     warningTexts,
	}
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatFileSize renders bytes in 1024 steps with at most two decimals, e.g. "1.17 KB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}

// TypeLabel is the upper-cased MIME subtype, e.g. "PDF" for application/pdf.
func TypeLabel(mimeType string) string {
	if i := strings.LastIndexByte(mimeType, '/'); i >= 0 {
		mimeType = mimeType[i+1:]
	}
	return strings.ToUpper(mimeType)
}
