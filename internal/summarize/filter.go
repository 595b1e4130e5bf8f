package summarize

import "github.com/couchcryptid/geo-digest-service/internal/domain"

// Filter narrows a layer's features before summarization, e.g. to the
// current map extent or a definition query.
type Filter interface {
	Apply(layer domain.LayerResult) ([]domain.Feature, error)
}

// FilterFunc adapts a function to Filter.
type FilterFunc func(layer domain.LayerResult) ([]domain.Feature, error)

// Apply calls f.
func (f FilterFunc) Apply(layer domain.LayerResult) ([]domain.Feature, error) { return f(layer) }

// PassThrough keeps every feature.
var PassThrough Filter = FilterFunc(func(layer domain.LayerResult) ([]domain.Feature, error) {
	return layer.Features, nil
})

// RequireField keeps only features carrying a non-null value for field.
func RequireField(field string) Filter {
	return FilterFunc(func(layer domain.LayerResult) ([]domain.Feature, error) {
		out := make([]domain.Feature, 0, len(layer.Features))
		for i := range layer.Features {
			if !layer.Features[i].Get(field).IsNull() {
				out = append(out, layer.Features[i])
			}
		}
		return out, nil
	})
}

// FilterFor returns RequireField(field), or PassThrough when field is empty.
func FilterFor(field string) Filter {
	if field == "" {
		return PassThrough
	}
	return RequireField(field)
}
