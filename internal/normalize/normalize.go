// Package normalize coerces untrusted, structurally arbitrary values (decoded
// JSON from local storage or an import file) into well-formed catalog
// records.
//
// Coercion rules
//
//   - Non-object input yields nil.
//   - Text fields are converted to strings and trimmed. Absent or "falsy"
//     values (null, false, 0, "") fall back to "" or the field default.
//     Objects and arrays in a text field are treated as absent.
//   - Image and link fields are only taken when they already are strings.
//   - Numbers are cast; anything that is not a finite number becomes 0, and
//     negative prices and like counts are clamped to 0.
//   - Missing id and createdAt are generated.
//   - Comment entries keep their scalar text verbatim (no trimming, no falsy
//     fallback). A null, object or array entry becomes "", not a rendering
//     such as "null" or "[object Object]".
//
// A product without a title or description after coercion is rejected. A
// profile is never rejected here; callers that need a username check it.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/sharebox/internal/models"
	"github.com/google/uuid"
)

// Test seams for generated values.
var (
	newID = uuid.NewString
	now   = models.Now
)

// Profile normalizes raw into a Profile, or returns nil for non-object input.
func Profile(raw any) *models.Profile {
	obj, ok := asObject(raw)
	if !ok {
		return nil
	}

	p := &models.Profile{
		ID:         text(obj["id"]),
		Username:   text(obj["username"]),
		Bio:        text(obj["bio"]),
		AvatarData: stringOnly(obj["avatarData"]),
		CreatedAt:  text(obj["createdAt"]),
	}
	if p.ID == "" {
		p.ID = newID()
	}
	if p.CreatedAt == "" {
		p.CreatedAt = now()
	}
	return p
}

// Product normalizes raw into a Product. It returns nil for non-object input
// and for records whose title or description is empty after coercion.
func Product(raw any) *models.Product {
	obj, ok := asObject(raw)
	if !ok {
		return nil
	}

	p := &models.Product{
		ID:            text(obj["id"]),
		Title:         text(obj["title"]),
		Description:   text(obj["description"]),
		Price:         nonNegative(number(obj["price"])),
		Category:      text(obj["category"]),
		Likes:         int(nonNegative(math.Trunc(number(obj["likes"])))),
		Comments:      comments(obj["comments"]),
		ImageData:     stringOnly(obj["imageData"]),
		ImageURL:      stringOnly(obj["imageUrl"]),
		SourceURL:     stringOnly(obj["sourceUrl"]),
		OwnerUsername: text(obj["ownerUsername"]),
		CreatedAt:     text(obj["createdAt"]),
	}
	if p.Title == "" || p.Description == "" {
		return nil
	}
	if p.ID == "" {
		p.ID = newID()
	}
	if p.Category == "" {
		p.Category = models.DefaultCategory
	}
	if p.CreatedAt == "" {
		p.CreatedAt = now()
	}
	return p
}

// Profiles normalizes every element of a raw array, dropping nils. Non-array
// input yields an empty slice.
func Profiles(raw any) []models.Profile {
	items, _ := raw.([]any)
	out := make([]models.Profile, 0, len(items))
	for _, item := range items {
		if p := Profile(item); p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// Products normalizes every element of a raw array, dropping rejected records.
func Products(raw any) []models.Product {
	items, _ := raw.([]any)
	out := make([]models.Product, 0, len(items))
	for _, item := range items {
		if p := Product(item); p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// ToRaw converts a typed value into the generic shape the normalizers accept.
func ToRaw(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func asObject(raw any) (map[string]any, bool) {
	switch obj := raw.(type) {
	case map[string]any:
		return obj, true
	case map[string]string:
		m := make(map[string]any, len(obj))
		for k, v := range obj {
			m[k] = v
		}
		return m, true
	default:
		return nil, false
	}
}

// text converts v to a trimmed string; falsy values become "".
func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case bool:
		if x {
			return "true"
		}
		return ""
	case float64:
		if x == 0 || math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		if f, err := x.Float64(); err == nil && f == 0 {
			return ""
		}
		return x.String()
	case int:
		if x == 0 {
			return ""
		}
		return strconv.Itoa(x)
	case int64:
		if x == 0 {
			return ""
		}
		return strconv.FormatInt(x, 10)
	default:
		return ""
	}
}

func stringOnly(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// number casts v to a finite float64; everything else is 0.
func number(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0
		}
		f = n
	case bool:
		if x {
			f = 1
		}
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = n
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func nonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}

// comments keeps array order; non-array input yields an empty sequence.
func comments(v any) []string {
	switch items := v.(type) {
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, plain(item))
		}
		return out
	case []string:
		out := make([]string, len(items))
		copy(out, items)
		return out
	default:
		return []string{}
	}
}

// plain converts a scalar to its string form without falsy fallbacks.
func plain(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	default:
		return ""
	}
}

// StoredID returns the coerced id carried by raw, or "" when raw has none.
// Unlike Profile it never generates one.
func StoredID(raw any) string {
	obj, ok := asObject(raw)
	if !ok {
		return ""
	}
	return text(obj["id"])
}
