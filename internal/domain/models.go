package domain

// Person is the item type of the demo people picker
type Person struct {
	Name string `json:"name" toml:"name" mapstructure:"name"`
}

// String returns the display name
func (p Person) String() string {
	return p.Name
}

// People converts a list of names into people, keeping order
func People(names ...string) []Person {
	people := make([]Person, 0, len(names))
	for _, name := range names {
		people = append(people, Person{Name: name})
	}
	return people
}
