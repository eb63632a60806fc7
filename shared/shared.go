package shared

import (
	"context"
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"encoding/json"
	"housing/shared/cache"
	"housing/shared/constant"
	"housing/shared/dto"
	"housing/shared/timezone"
	"reflect"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// ParseOptionalBool reads a tri-state query flag: nil when absent or unparsable.
func ParseOptionalBool(value string) *bool {
	if value == constant.Empty {
		return nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Debug().Str("value", value).Msg("ignoring malformed boolean flag")

		return nil
	}

	return &parsed
}

func CalculateTotalPage(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}

	return (total + limit - 1) / limit
}

// UpdatedColumns maps the non-zero db-tagged fields of req to their columns and stamps
// the modification metadata. Pointer fields are dereferenced, so a *bool set to false
// is still written.
func UpdatedColumns(req any, actor string) map[string]any {
	value := reflect.ValueOf(req)
	columns := map[string]any{
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	for _, field := range reflect.VisibleFields(value.Type()) {
		name := field.Tag.Get("db")
		if name == constant.Empty || name == "-" {
			continue
		}

		fieldValue := value.FieldByIndex(field.Index)
		if fieldValue.IsZero() {
			continue
		}

		columns[name] = reflect.Indirect(fieldValue).Interface()
	}

	return columns
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// Actor returns the caller identity forwarded by the gateway, or the system actor.
func Actor(ctx context.Context) string {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return constant.ActorSystem
	}

	return user
}

func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), ":")
}

// BuildCacheKeyWithQuery derives a stable key from the query parameters and filter of a listing.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	raw, err := json.Marshal(struct {
		Params dto.QueryParams `json:"params"`
		Where  string          `json:"where"`
		Args   map[string]any  `json:"args"`
	}{params, where, args})
	if err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to marshal cache key query")

		return prefix
	}

	sum := sha1.Sum(raw) //nolint:gosec

	return BuildCacheKey(prefix, hex.EncodeToString(sum[:]))
}

// InvalidateCaches clears every key under prefix. Failures are logged only.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
