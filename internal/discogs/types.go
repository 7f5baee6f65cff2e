package discogs

// Discogs API response types.

// CollectionResponse is the top-level response from the collection folder
// releases endpoint.
type CollectionResponse struct {
	Pagination Pagination          `json:"pagination"`
	Releases   []CollectionRelease `json:"releases"`
}

// Pagination holds pagination info.
type Pagination struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
	Items   int `json:"items"`
}

// CollectionRelease represents one release in a collection folder.
type CollectionRelease struct {
	ID               int              `json:"id"`
	InstanceID       int              `json:"instance_id"`
	Rating           int              `json:"rating"`
	BasicInformation BasicInformation `json:"basic_information"`
}

// BasicInformation is the release summary Discogs embeds in collection
// listings. Year is 0 when Discogs does not know the release year.
type BasicInformation struct {
	Title   string   `json:"title"`
	Year    int      `json:"year"`
	Artists []Artist `json:"artists"`
}

// Artist is a credited artist on a release.
type Artist struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
