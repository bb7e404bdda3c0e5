package combobox

// Renderer turns items into views. Selected and Option are required; the
// placeholder callbacks may be nil, in which case that mode renders nothing.
// Renderers must not mutate the Selection.
type Renderer[T, V any] struct {
	Selected func(item T) V
	Option   func(item T, selected bool) V
	Loading  func() V
	Empty    func() V
	Failed   func(err error) V
}

// RenderOptions renders the panel body for d
func RenderOptions[T, V any](d Display[T], r Renderer[T, V]) []V {
	switch d.Mode {
	case DisplayOptions:
		views := make([]V, len(d.Rows))
		for i, row := range d.Rows {
			views[i] = r.Option(row.Item, row.Selected)
		}
		return views
	case DisplayLoading:
		if r.Loading == nil {
			return nil
		}
		return []V{r.Loading()}
	case DisplayError:
		if r.Failed == nil {
			return nil
		}
		return []V{r.Failed(d.Err)}
	default:
		if r.Empty == nil {
			return nil
		}
		return []V{r.Empty()}
	}
}

// RenderTrigger renders the closed trigger, or fallback with no selection
func RenderTrigger[T, V any](s *Selection[T], r Renderer[T, V], fallback V) V {
	item, ok := s.Selected()
	if !ok {
		return fallback
	}
	return r.Selected(item)
}
