package hura

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The gateway's payload shapes are not contractually fixed: the same fields
// have been seen at the top level and nested under a "data" wrapper, and ids
// under several key spellings. Extraction therefore runs an ordered list of
// locations and key candidates instead of assuming one shape.

type payloadDoc map[string]interface{}

// decodePayload decodes a gateway body into a generic document. Bodies that
// are not JSON objects decode to nil, which makes every lookup miss.
func decodePayload(raw []byte) payloadDoc {
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	return doc
}

// section returns a nested object by key, or nil when absent.
func (d payloadDoc) section(key string) payloadDoc {
	if d == nil {
		return nil
	}
	if nested, ok := d[key].(map[string]interface{}); ok {
		return payloadDoc(nested)
	}
	return nil
}

// stringValue returns the first non-empty value among the key candidates,
// coercing JSON numbers to their decimal form (some gateways send numeric ids).
func (d payloadDoc) stringValue(keys ...string) string {
	if d == nil {
		return ""
	}
	for _, key := range keys {
		switch v := d[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// firstString resolves the key candidates against an ordered list of
// documents, returning the first hit.
func firstString(docs []payloadDoc, keys ...string) string {
	for _, doc := range docs {
		if s := doc.stringValue(keys...); s != "" {
			return s
		}
	}
	return ""
}

// createFields is what the initiator needs out of a successful create response.
type createFields struct {
	TransactionID string
	Status        string
	QRCode        string
	CopyPaste     string
}

// extractCreateFields pulls the transaction fields out of a create response,
// trying the "data" wrapper first and the top level as fallback.
func extractCreateFields(raw []byte) createFields {
	doc := decodePayload(raw)
	docs := []payloadDoc{doc.section("data"), doc}

	fields := createFields{
		TransactionID: firstString(docs, "id", "transaction_id", "transactionId"),
		Status:        NormalizeStatus(firstString(docs, "status")),
	}
	if fields.Status == "" {
		fields.Status = "created"
	}

	pixDocs := []payloadDoc{doc.section("data").section("pix"), doc.section("pix")}
	fields.QRCode = firstString(pixDocs, "qr_code", "qrCode")
	fields.CopyPaste = firstString(pixDocs, "copy_paste", "copyPaste", "emv")
	if fields.CopyPaste == "" {
		// For this gateway the copy-paste code and the QR payload are the
		// same EMV string, so the QR code doubles as the fallback.
		fields.CopyPaste = fields.QRCode
	}

	return fields
}

// postbackFields is what the receiver can hope to find in a notification.
type postbackFields struct {
	TransactionID string
	BookingID     string
	Status        string
}

// extractPostbackFields pulls the correlation fields out of a postback body,
// trying the top level first and "data" as fallback.
func extractPostbackFields(raw []byte) postbackFields {
	doc := decodePayload(raw)
	docs := []payloadDoc{doc, doc.section("data")}
	metaDocs := []payloadDoc{doc.section("metadata"), doc.section("data").section("metadata")}

	return postbackFields{
		TransactionID: firstString(docs, "id", "transaction_id", "transactionId"),
		BookingID:     firstString(metaDocs, "booking_id", "bookingId"),
		Status:        NormalizeStatus(firstString(docs, "status")),
	}
}
