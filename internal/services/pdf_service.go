package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"workero/internal/common"
	"workero/internal/models"
)

const quotePDFBucket = "quote-pdfs"

// QuotePDFService renders quotes to PDF and archives the result in
// object storage.
type QuotePDFService interface {
	Render(quote *models.Quote) ([]byte, error)
	RenderAndStore(ctx context.Context, quote *models.Quote) ([]byte, string, error)
	Filename(quote *models.Quote) string
}

type quotePDFService struct {
	store ObjectStore
}

// ObjectStore is the object-storage slice the PDF service needs.
type ObjectStore interface {
	Upload(ctx context.Context, bucketName, objectName string, data []byte, contentType string) error
	GetPresignedURL(bucketName, objectName string, expiry time.Duration) (string, error)
	EnsureBucketExists(ctx context.Context, bucketName string) error
}

// NewQuotePDFService creates a new quote PDF service instance. store
// may be nil, in which case rendered PDFs are returned but not archived.
func NewQuotePDFService(store ObjectStore) QuotePDFService {
	return &quotePDFService{store: store}
}

func (s *quotePDFService) Filename(quote *models.Quote) string {
	return "quote-" + quote.ID.String()[:8] + ".pdf"
}

func (s *quotePDFService) Render(quote *models.Quote) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.Cell(0, 10, "Quote #"+quote.ID.String()[:8])
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	if quote.Client != nil {
		pdf.Cell(0, 6, "Client: "+quote.Client.Name)
		pdf.Ln(6)
		if quote.Client.Email != nil {
			pdf.Cell(0, 6, "Email: "+*quote.Client.Email)
			pdf.Ln(6)
		}
	}
	pdf.Cell(0, 6, "Status: "+string(quote.Status))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Valid until: "+quote.ValidUntil.Format("2006-01-02"))
	pdf.Ln(10)

	// Item table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(80, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Line Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range quote.Items {
		pdf.CellFormat(80, 8, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, item.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, item.LineTotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(135, 8, "Subtotal", "0", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, quote.Subtotal.StringFixed(2), "0", 1, "R", false, 0, "")
	pdf.CellFormat(135, 8, "Tax", "0", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, quote.TaxAmount.StringFixed(2), "0", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(135, 8, "Total", "0", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, quote.Total.StringFixed(2), "0", 1, "R", false, 0, "")

	if quote.Notes != nil && *quote.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, "Notes: "+*quote.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, common.NewInternalError("Failed to render quote PDF", err)
	}
	return buf.Bytes(), nil
}

// RenderAndStore renders the PDF and uploads it. The returned URL is a
// presigned link to the archived copy, empty when no store is configured.
func (s *quotePDFService) RenderAndStore(ctx context.Context, quote *models.Quote) ([]byte, string, error) {
	data, err := s.Render(quote)
	if err != nil {
		return nil, "", err
	}
	if s.store == nil {
		return data, "", nil
	}

	objectName := fmt.Sprintf("%s/%s", quote.CompanyID, s.Filename(quote))
	if err := s.store.EnsureBucketExists(ctx, quotePDFBucket); err != nil {
		return nil, "", common.NewInternalError("Failed to prepare PDF bucket", err)
	}
	if err := s.store.Upload(ctx, quotePDFBucket, objectName, data, "application/pdf"); err != nil {
		return nil, "", common.NewInternalError("Failed to archive quote PDF", err)
	}

	url, err := s.store.GetPresignedURL(quotePDFBucket, objectName, 24*time.Hour)
	if err != nil {
		return nil, "", common.NewInternalError("Failed to presign quote PDF", err)
	}
	return data, url, nil
}

type minioStore struct {
	client *minio.Client
}

// NewMinioStore creates an ObjectStore backed by MinIO.
func NewMinioStore(endpoint, accessKey, secretKey string, useSSL bool) (ObjectStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioStore{client: client}, nil
}

func (m *minioStore) Upload(ctx context.Context, bucketName, objectName string, data []byte, contentType string) error {
	_, err := m.client.PutObject(ctx, bucketName, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *minioStore) GetPresignedURL(bucketName, objectName string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(context.Background(), bucketName, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioStore) EnsureBucketExists(ctx context.Context, bucketName string) error {
	found, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
	}
	return nil
}
