package valuestore

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// validate applies the type specific rules to v. Constraints are read from v,
// which already carries the attribute and override constraints.
func (s *Store) validate(ctx context.Context, tx committer.Tx, attr *domain.Attribute, v *domain.Value) error {
	name := attr.NameFor("")

	switch attr.Type {
	case domain.TypeInt:
		if v.IntValue != nil {
			if err := checkBounds(float64(*v.IntValue), v.Min, v.Max); err != nil {
				return err
			}
		}
	case domain.TypeFloat:
		if v.FloatValue != nil {
			if err := checkBounds(*v.FloatValue, v.Min, v.Max); err != nil {
				return err
			}
		}
	case domain.TypeRangeInt:
		if v.IntValue != nil && v.IntValue1 != nil && *v.IntValue > *v.IntValue1 {
			return domain.NewValidationError(domain.KeyValueToShouldBeGreater, map[string]any{
				"attribute": name,
				"value":     *v.IntValue,
			})
		}
	case domain.TypeRangeFloat:
		if v.FloatValue != nil && v.FloatValue1 != nil && *v.FloatValue > *v.FloatValue1 {
			return domain.NewValidationError(domain.KeyValueToShouldBeGreater, map[string]any{
				"attribute": name,
				"value":     *v.FloatValue,
			})
		}
	case domain.TypeExtensibleEnum:
		if v.ReferenceValue != nil && *v.ReferenceValue != "" {
			if err := s.checkOptions(ctx, tx, attr, []string{*v.ReferenceValue}); err != nil {
				return err
			}
		}
	case domain.TypeExtensibleMultiEnum:
		var ids []string
		for _, item := range domain.DecodeJSONArray(v.TextValue) {
			ids = append(ids, fmt.Sprint(item))
		}
		if len(ids) > 0 {
			if err := s.checkOptions(ctx, tx, attr, ids); err != nil {
				return err
			}
		}
	}

	if attr.Type.IsTextual() {
		text := v.TextValue
		if attr.Type == domain.TypeVarchar {
			text = v.VarcharValue
		}
		if text != nil && v.MaxLength != nil && *v.MaxLength > 0 {
			length := int64(utf8.RuneCountInString(*text))
			if v.CountBytesInsteadOfCharacters {
				length = int64(len(*text))
			}
			if length > *v.MaxLength {
				return domain.NewValidationError(domain.KeyMaxLengthIsExceeded, map[string]any{
					"attribute": name,
					"max":       *v.MaxLength,
					"actual":    length,
				})
			}
		}
	}

	if attr.Type.HasUnit() && v.ReferenceValue != nil && *v.ReferenceValue != "" {
		ok := false
		if attr.MeasureID != "" {
			var err error
			ok, err = s.units.Exists(ctx, tx, *v.ReferenceValue, attr.MeasureID)
			if err != nil {
				return fmt.Errorf("failed to look up unit: %w", err)
			}
		}
		if !ok {
			return domain.NewValidationError(domain.KeyNoSuchUnit, map[string]any{
				"unit":      *v.ReferenceValue,
				"attribute": name,
			})
		}
	}

	if attr.Type == domain.TypeVarchar && attr.Pattern != "" && v.VarcharValue != nil {
		re, err := compilePattern(attr.Pattern)
		if err != nil {
			return fmt.Errorf("failed to compile pattern of attribute %q: %w", attr.ID, err)
		}
		if !re.MatchString(*v.VarcharValue) {
			return domain.NewValidationError(domain.KeyPatternMismatch, map[string]any{
				"attribute": name,
				"pattern":   attr.Pattern,
			})
		}
	}

	return nil
}

// checkBounds rejects values below min or above max. Bounds are inclusive.
func checkBounds(value float64, min, max *float64) error {
	if min != nil && value < *min {
		return domain.NewValidationError(domain.KeyFieldShouldBeGreater, map[string]any{
			"field": "value",
			"value": *min,
		})
	}
	if max != nil && value > *max {
		return domain.NewValidationError(domain.KeyFieldShouldBeLess, map[string]any{
			"field": "value",
			"value": *max,
		})
	}
	return nil
}

// checkOptions reports the first of ids that is not an option of the
// attribute's enum.
func (s *Store) checkOptions(ctx context.Context, tx committer.Tx, attr *domain.Attribute, ids []string) error {
	found := map[string]bool{}
	if attr.ExtensibleEnumID != "" {
		existing, err := s.enumOptions.ExistingIDs(ctx, tx, attr.ExtensibleEnumID, ids)
		if err != nil {
			return fmt.Errorf("failed to look up enum options: %w", err)
		}
		for _, id := range existing {
			found[id] = true
		}
	}
	for _, id := range ids {
		if !found[id] {
			return domain.NewValidationError(domain.KeyNoSuchOptions, map[string]any{
				"option":    id,
				"attribute": attr.NameFor(""),
			})
		}
	}
	return nil
}
