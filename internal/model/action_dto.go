package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/ridwanfathin/invoice-generator-service/internal/domain"
)

// ErrUnknownAction is returned for action types the editor does not know
var ErrUnknownAction = errors.New("unknown action type")

// ErrInvalidAction is returned when an action's fields cannot be used
var ErrInvalidAction = errors.New("invalid action")

// ActionDTO is the wire form of one edit. Value holds a JSON string, number or
// bool depending on Type. Numeric inputs that cannot be read become zero.
type ActionDTO struct {
	Type     string          `json:"type" binding:"required" example:"updateService"`
	ID       int             `json:"id,omitempty" example:"1"`
	Field    string          `json:"field,omitempty" example:"qty"`
	Role     string          `json:"role,omitempty" example:"finance"`
	Name     string          `json:"name,omitempty"`
	Position string          `json:"position,omitempty"`
	Value    json.RawMessage `json:"value,omitempty" swaggertype:"string" example:"2"`
	State    *domain.State   `json:"state,omitempty"`
}

// text returns Value as a string: JSON strings are unquoted, numbers and
// bools keep their literal form, null and absent values are empty
func (dto ActionDTO) text() string {
	raw := strings.TrimSpace(string(dto.Value))
	if raw == "" || raw == "null" {
		return ""
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(dto.Value, &s); err == nil {
			return s
		}
	}
	return raw
}

func (dto ActionDTO) flag() bool {
	v, err := strconv.ParseBool(strings.TrimSpace(dto.text()))
	return err == nil && v
}

func (dto ActionDTO) date() (domain.DateOnly, error) {
	d, err := domain.ParseDateOnly(dto.text())
	if err != nil {
		return domain.DateOnly{}, fmt.Errorf("%w: %s: %v", ErrInvalidAction, dto.Type, err)
	}
	return d, nil
}

// ToDomain converts an ActionDTO to a domain Action
func (dto ActionDTO) ToDomain() (domain.Action, error) {
	switch dto.Type {
	case "setClientName":
		return domain.SetClientName{Value: dto.text()}, nil
	case "setPicName":
		return domain.SetPICName{Value: dto.text()}, nil
	case "setClientEmail":
		return domain.SetClientEmail{Value: dto.text()}, nil
	case "setClientAddress":
		return domain.SetClientAddress{Value: dto.text()}, nil
	case "setInvoiceNumber":
		return domain.SetInvoiceNumber{Value: dto.text()}, nil
	case "setInvoiceDate":
		d, err := dto.date()
		if err != nil {
			return nil, err
		}
		return domain.SetInvoiceDate{Value: d}, nil
	case "setDueDate":
		d, err := dto.date()
		if err != nil {
			return nil, err
		}
		return domain.SetDueDate{Value: d}, nil
	case "setSubject":
		return domain.SetSubject{Value: dto.text()}, nil
	case "setPoNumber":
		return domain.SetPONumber{Value: dto.text()}, nil
	case "setDiscount":
		return domain.SetDiscount{Value: domain.ParseAmount(dto.text())}, nil
	case "setPpnEnabled":
		return domain.SetPPNEnabled{Value: dto.flag()}, nil
	case "setPpnRate":
		return domain.SetPPNRate{Value: domain.ParseAmount(dto.text())}, nil
	case "setPphEnabled":
		return domain.SetPPhEnabled{Value: dto.flag()}, nil
	case "setPphRate":
		return domain.SetPPhRate{Value: domain.ParseAmount(dto.text())}, nil
	case "setSigner":
		return domain.SetSigner{Role: domain.Signer(dto.Role), Name: dto.Name, Position: dto.Position}, nil
	case "setSignature":
		return domain.SetSignature{Role: domain.Signer(dto.Role), Payload: dto.text()}, nil
	case "addService":
		return domain.AddService{}, nil
	case "removeService":
		return domain.RemoveService{ID: dto.ID}, nil
	case "updateService":
		return dto.serviceUpdate()
	case "replaceState":
		if dto.State == nil {
			return nil, fmt.Errorf("%w: replaceState needs a state", ErrInvalidAction)
		}
		return domain.ReplaceState{State: *dto.State}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, dto.Type)
}

func (dto ActionDTO) serviceUpdate() (domain.Action, error) {
	switch dto.Field {
	case "name":
		return domain.UpdateServiceName{ID: dto.ID, Value: dto.text()}, nil
	case "package":
		return domain.UpdateServicePackage{ID: dto.ID, Value: dto.text()}, nil
	case "qty":
		return domain.UpdateServiceQty{ID: dto.ID, Value: domain.ParseQty(dto.text())}, nil
	case "unitPrice":
		return domain.UpdateServiceUnitPrice{ID: dto.ID, Value: domain.ParseAmount(dto.text())}, nil
	}
	return nil, fmt.Errorf("%w: unknown service field %q", ErrInvalidAction, dto.Field)
}

// ActionsToDomain converts a batch, reporting the index of the first bad action
func ActionsToDomain(dtos []ActionDTO) ([]domain.Action, error) {
	actions := make([]domain.Action, 0, len(dtos))
	for i, dto := range dtos {
		a, err := dto.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}
