package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// AuditAction is the closed set of actions recorded in the audit trail
type AuditAction string

const (
	ActionBookingCreated   AuditAction = "booking_created"
	ActionBookingUpdated   AuditAction = "booking_updated"
	ActionBookingCancelled AuditAction = "booking_cancelled"
	ActionBookingStarted   AuditAction = "booking_started"
	ActionBookingCompleted AuditAction = "booking_completed"
	ActionDriverAssigned   AuditAction = "driver_assigned"
	ActionPaymentReceived  AuditAction = "payment_received"
	ActionPaymentInitiated AuditAction = "payment_initiated"
	ActionContractSent     AuditAction = "contract_sent"
	ActionCustomerNotified AuditAction = "customer_notified"
	ActionVehicleCreated   AuditAction = "vehicle_created"
	ActionVehicleUpdated   AuditAction = "vehicle_updated"
	ActionVehicleDeleted   AuditAction = "vehicle_deleted"
	ActionCustomerCreated  AuditAction = "customer_created"
	ActionCustomerUpdated  AuditAction = "customer_updated"
	ActionCustomerDeleted  AuditAction = "customer_deleted"
	ActionUserCreated      AuditAction = "user_created"
	ActionUserUpdated      AuditAction = "user_updated"
	ActionUserDeleted      AuditAction = "user_deleted"
)

var auditActions = map[AuditAction]struct{}{
	ActionBookingCreated: {}, ActionBookingUpdated: {}, ActionBookingCancelled: {},
	ActionBookingStarted: {}, ActionBookingCompleted: {}, ActionDriverAssigned: {},
	ActionPaymentReceived: {}, ActionPaymentInitiated: {}, ActionContractSent: {},
	ActionCustomerNotified: {}, ActionVehicleCreated: {}, ActionVehicleUpdated: {},
	ActionVehicleDeleted: {}, ActionCustomerCreated: {}, ActionCustomerUpdated: {},
	ActionCustomerDeleted: {}, ActionUserCreated: {}, ActionUserUpdated: {},
	ActionUserDeleted: {},
}

// IsValid reports whether the action belongs to the closed set
func (a AuditAction) IsValid() bool {
	_, ok := auditActions[a]
	return ok
}

// AuditEntityType identifies the kind of business object affected
type AuditEntityType string

const (
	EntityRental   AuditEntityType = "rental"
	EntityVehicle  AuditEntityType = "vehicle"
	EntityCustomer AuditEntityType = "customer"
	EntityPayment  AuditEntityType = "payment"
	EntityUser     AuditEntityType = "user"
	EntityContract AuditEntityType = "contract"
)

// IsValid reports whether the entity type belongs to the closed set
func (e AuditEntityType) IsValid() bool {
	switch e {
	case EntityRental, EntityVehicle, EntityCustomer, EntityPayment, EntityUser, EntityContract:
		return true
	}
	return false
}

// EntityIDUnknown is stored when no identifier can be resolved from the request
const EntityIDUnknown = "N/A"

// entityIDBodyKeys is the body lookup order used after the route id param
var entityIDBodyKeys = []string{"id", "rental_id", "vehicle_id"}

// AuditMetadata describes the HTTP exchange that produced an audit record
type AuditMetadata struct {
	Method     string `json:"method" bson:"method"`
	Path       string `json:"path" bson:"path"`
	StatusCode int    `json:"statusCode" bson:"statusCode"`
}

// AuditRecord is a write-once entry describing who did what to which entity
type AuditRecord struct {
	ID         string                 `json:"id" bson:"_id"`
	Action     AuditAction            `json:"action" bson:"action"`
	EntityType AuditEntityType        `json:"entity_type" bson:"entity_type"`
	EntityID   string                 `json:"entity_id" bson:"entity_id"`
	UserID     string                 `json:"user_id" bson:"user_id"`
	UserRole   string                 `json:"user_role" bson:"user_role"`
	UserName   string                 `json:"user_name" bson:"user_name"`
	IPAddress  string                 `json:"ip_address" bson:"ip_address"`
	UserAgent  string                 `json:"user_agent" bson:"user_agent"`
	Changes    map[string]interface{} `json:"changes" bson:"changes"`
	Metadata   AuditMetadata          `json:"metadata" bson:"metadata"`
	Timestamp  time.Time              `json:"timestamp" bson:"timestamp"`
}

// AuditActor is the authenticated user that triggered an action
type AuditActor struct {
	ID   string
	Role string
	Name string
}

// AuditRequest carries everything needed to build a record for one request
type AuditRequest struct {
	Action     AuditAction
	EntityType AuditEntityType
	Actor      *AuditActor
	RouteID    string
	Body       map[string]interface{}
	IPAddress  string
	UserAgent  string
	Method     string
	Path       string
	StatusCode int
}

// ShouldAudit reports whether a finished request qualifies for an audit record.
// Only authenticated requests that did not end in an error status qualify.
func ShouldAudit(actor *AuditActor, statusCode int) bool {
	if actor == nil || actor.ID == "" {
		return false
	}
	return statusCode > 0 && statusCode < 400
}

// ResolveEntityID picks the affected entity id: route id, then body id,
// rental_id and vehicle_id, then EntityIDUnknown.
func ResolveEntityID(routeID string, body map[string]interface{}) string {
	if routeID != "" {
		return routeID
	}
	for _, key := range entityIDBodyKeys {
		if v, ok := body[key]; ok {
			if s := stringifyID(v); s != "" {
				return s
			}
		}
	}
	return EntityIDUnknown
}

func stringifyID(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	case bool, map[string]interface{}, []interface{}:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// ErrChangesNotObject is returned by DecodeChanges for any payload that is not
// a single JSON object.
var ErrChangesNotObject = errors.New("changes payload is not a JSON object")

// DecodeChanges parses a JSON object keeping numbers as json.Number, so
// integers beyond float64 precision survive unchanged.
func DecodeChanges(raw []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var out map[string]interface{}
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrChangesNotObject
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrChangesNotObject
	}
	return out, nil
}

// NewAuditRecord builds the record for a qualifying request
func NewAuditRecord(id string, req AuditRequest, now time.Time) *AuditRecord {
	rec := &AuditRecord{
		ID:         id,
		Action:     req.Action,
		EntityType: req.EntityType,
		EntityID:   ResolveEntityID(req.RouteID, req.Body),
		IPAddress:  req.IPAddress,
		UserAgent:  req.UserAgent,
		Changes:    req.Body,
		Metadata: AuditMetadata{
			Method:     req.Method,
			Path:       req.Path,
			StatusCode: req.StatusCode,
		},
		Timestamp: now.UTC(),
	}
	if rec.Changes == nil {
		rec.Changes = map[string]interface{}{}
	}
	if req.Actor != nil {
		rec.UserID = req.Actor.ID
		rec.UserRole = req.Actor.Role
		rec.UserName = req.Actor.Name
	}
	return rec
}

// AuditFilter narrows audit trail queries
type AuditFilter struct {
	Action     AuditAction
	EntityType AuditEntityType
	EntityID   string
	UserID     string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}
