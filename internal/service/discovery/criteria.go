package discovery

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/oggyb/matcha/internal/db"
	svcErr "github.com/oggyb/matcha/internal/errors"
)

// CriteriaInput is the loose, wire-shaped search request. Ranges are optional
// but must come as complete min/max pairs.
type CriteriaInput struct {
	MinDistanceKm *float64 `json:"min_distance_km" validate:"omitempty,gte=0,lte=20040"`
	MaxDistanceKm *float64 `json:"max_distance_km" validate:"omitempty,gte=0,lte=20040"`
	MinAge        *int     `json:"min_age" validate:"omitempty,gte=18,lte=120"`
	MaxAge        *int     `json:"max_age" validate:"omitempty,gte=18,lte=120"`
	MinStars      *int     `json:"min_stars" validate:"omitempty,gte=0,lte=5"`
	MaxStars      *int     `json:"max_stars" validate:"omitempty,gte=0,lte=5"`
	Interests     []string `json:"interests" validate:"omitempty,unique,dive,interest"`
}

// Criterion is one validated search filter: DistanceRange, AgeRange,
// InterestSet or FameRange.
type Criterion interface {
	criterion()
}

// DistanceRange keeps candidates whose distance from the viewer is in [MinKm, MaxKm].
type DistanceRange struct{ MinKm, MaxKm float64 }

// AgeRange keeps candidates whose age is in [Min, Max].
type AgeRange struct{ Min, Max int }

// InterestSet keeps candidates holding every tag.
type InterestSet struct{ Tags []string }

// FameRange keeps candidates whose star rating is in [MinStars, MaxStars].
type FameRange struct{ MinStars, MaxStars int }

func (DistanceRange) criterion() {}
func (AgeRange) criterion()      {}
func (InterestSet) criterion()   {}
func (FameRange) criterion()     {}

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
	_ = v.RegisterValidation("interest", func(fl validator.FieldLevel) bool {
		return db.IsInterest(fl.Field().String())
	})
	return v
}

// ValidateInterests checks a tag list against the vocabulary; used by profile edits.
func ValidateInterests(tags []string) error {
	in := struct {
		Interests []string `json:"interests" validate:"unique,dive,interest"`
	}{Interests: tags}
	return validationError(validate.Struct(in))
}

// ValidateLocation checks a coordinate pair before it is stored.
func ValidateLocation(lat, lon float64) error {
	in := struct {
		Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
		Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	}{Latitude: lat, Longitude: lon}
	return validationError(validate.Struct(in))
}

// ParseCriteria validates in once and converts it into typed criteria.
// Every failure is a validation error; the store is never consulted.
//
// Behavior:
//   - Range bounds outside their domain, duplicate or unknown tags fail.
//   - A half-supplied pair, min > max, or an empty interest list fails.
//   - At least one criterion must remain.
//
// Example:
//
//	min, max := 0.0, 10.0
//	criteria, err := ParseCriteria(CriteriaInput{MinDistanceKm: &min, MaxDistanceKm: &max})
func ParseCriteria(in CriteriaInput) ([]Criterion, error) {
	if err := validationError(validate.Struct(in)); err != nil {
		return nil, err
	}

	var criteria []Criterion

	if ok, err := pair("min_distance_km", "max_distance_km", in.MinDistanceKm, in.MaxDistanceKm); err != nil {
		return nil, err
	} else if ok {
		criteria = append(criteria, DistanceRange{MinKm: *in.MinDistanceKm, MaxKm: *in.MaxDistanceKm})
	}

	if ok, err := pair("min_age", "max_age", in.MinAge, in.MaxAge); err != nil {
		return nil, err
	} else if ok {
		criteria = append(criteria, AgeRange{Min: *in.MinAge, Max: *in.MaxAge})
	}

	if in.Interests != nil {
		if len(in.Interests) == 0 {
			return nil, svcErr.Validationf("interests must not be empty when given")
		}
		tags := append([]string(nil), in.Interests...)
		criteria = append(criteria, InterestSet{Tags: tags})
	}

	if ok, err := pair("min_stars", "max_stars", in.MinStars, in.MaxStars); err != nil {
		return nil, err
	} else if ok {
		criteria = append(criteria, FameRange{MinStars: *in.MinStars, MaxStars: *in.MaxStars})
	}

	if len(criteria) == 0 {
		return nil, svcErr.Validationf("at least one search criterion is required")
	}
	return criteria, nil
}

// pair reports whether both bounds are present, failing on half pairs and
// inverted ranges.
func pair[T int | float64](minName, maxName string, lo, hi *T) (bool, error) {
	switch {
	case lo == nil && hi == nil:
		return false, nil
	case lo == nil || hi == nil:
		return false, svcErr.Validationf("%s and %s must be given together", minName, maxName)
	case *lo > *hi:
		return false, svcErr.Validationf("%s must not exceed %s", minName, maxName)
	}
	return true, nil
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return svcErr.Validationf("invalid criteria: %v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return svcErr.Validationf("%s", strings.Join(msgs, "; "))
}

// formatFieldError converts validator errors to human-readable messages
func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "unique":
		return fmt.Sprintf("%s must not contain duplicates", field)
	case "interest":
		return fmt.Sprintf("%s: %v is not a known interest", field, fe.Value())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
