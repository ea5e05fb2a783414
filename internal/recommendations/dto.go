package recommendations

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// recommendationRequest is the JSON body of create and update calls.
// Ids may be omitted when the route path supplies them.
type recommendationRequest struct {
	ProductID        *int64 `json:"product-id" validate:"omitempty,gte=0"`
	RelatedProductID *int64 `json:"related-product-id" validate:"omitempty,gte=0"`
	TypeID           *int   `json:"type-id" validate:"required,oneof=1 2 3"`
	Status           *bool  `json:"status" validate:"required"`
}

func (r recommendationRequest) check() error {
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}
	return nil
}

// input merges the body with path ids. Path ids win; a body id that
// disagrees with the path is rejected.
func (r recommendationRequest) input(pathProductID, pathRelatedID *int64) (Input, error) {
	productID, err := pickID("product-id", r.ProductID, pathProductID)
	if err != nil {
		return Input{}, err
	}
	relatedID, err := pickID("related-product-id", r.RelatedProductID, pathRelatedID)
	if err != nil {
		return Input{}, err
	}
	return Input{
		ProductID:        productID,
		RelatedProductID: relatedID,
		TypeID:           TypeID(*r.TypeID),
		Status:           *r.Status,
	}, nil
}

func pickID(field string, body, path *int64) (int64, error) {
	switch {
	case path != nil && body != nil && *body != *path:
		return 0, fmt.Errorf("%w: %s %d does not match the path id %d", ErrInvalidInput, field, *body, *path)
	case path != nil:
		return *path, nil
	case body != nil:
		return *body, nil
	}
	return 0, fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "gte":
			msgs = append(msgs, fe.Field()+" must be a non-negative integer")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

// Response is the wire representation of a recommendation.
type Response struct {
	ProductID        int64  `json:"product-id"`
	RelatedProductID int64  `json:"related-product-id"`
	TypeID           TypeID `json:"type-id"`
	Status           bool   `json:"status"`
}

func toResponse(rec Recommendation) Response {
	return Response{
		ProductID:        rec.ProductID,
		RelatedProductID: rec.RelatedProductID,
		TypeID:           rec.TypeID,
		Status:           rec.Status,
	}
}

func toResponses(recs []Recommendation) []Response {
	out := make([]Response, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toResponse(rec))
	}
	return out
}

// StatusResponse is returned by the toggle route.
type StatusResponse struct {
	Status bool `json:"status"`
}
