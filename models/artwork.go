package models

// Artwork is one catalog entry. Reference data, read-only to the
// recommendation core.
type Artwork struct {
	ID               int64
	Title            string
	AuthorID         int64
	EraIDs           []int
	Theme            string
	BaseVisitMinutes int
}

// Author carries the hand-curated similar-author neighbor graph along
// with the eras the author is principally associated with.
type Author struct {
	ID         int64
	Name       string
	EraIDs     []int
	SimilarIDs []int64
}

// Match is the content-based compatibility of one artwork with one
// profile. Produced transiently, never persisted directly.
type Match struct {
	ArtworkID          int64   `json:"artwork_id"`
	Score              float64 `json:"score"`
	ScaledVisitMinutes float64 `json:"scaled_visit_minutes"`
}

// RankedArtwork is one entry of a ranked recommendation list.
type RankedArtwork struct {
	ArtworkID int64   `json:"artwork_id"`
	Score     float64 `json:"score"`
}

// HybridRecommendation exposes both rankings for the same profile
// without forcing a merge; callers choose or blend downstream.
type HybridRecommendation struct {
	CBR []RankedArtwork `json:"cbr"`
	CF  []RankedArtwork `json:"cf"`
}

// Catalog is the immutable artwork lookup table, built once at startup
// and passed by reference to the components that need it.
type Catalog struct {
	artworks []Artwork
	byID     map[int64]*Artwork
	byTitle  map[string]*Artwork
}

// NewCatalog builds a catalog preserving the given order; that order
// is the tie-break for every stable sort over match scores.
func NewCatalog(artworks []Artwork) *Catalog {
	c := &Catalog{
		artworks: artworks,
		byID:     make(map[int64]*Artwork, len(artworks)),
		byTitle:  make(map[string]*Artwork, len(artworks)),
	}
	for i := range c.artworks {
		a := &c.artworks[i]
		c.byID[a.ID] = a
		c.byTitle[a.Title] = a
	}
	return c
}

// Artworks returns the catalog in its canonical order.
func (c *Catalog) Artworks() []Artwork {
	return c.artworks
}

// Get looks an artwork up by id.
func (c *Catalog) Get(id int64) (*Artwork, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// GetByTitle looks an artwork up by its exact title.
func (c *Catalog) GetByTitle(title string) (*Artwork, bool) {
	a, ok := c.byTitle[title]
	return a, ok
}

// Len reports the catalog size.
func (c *Catalog) Len() int {
	return len(c.artworks)
}

// AuthorRegistry is the immutable author lookup table with the curated
// nearest-neighbor graph.
type AuthorRegistry struct {
	byID   map[int64]*Author
	byName map[string]*Author
}

// NewAuthorRegistry indexes the authors by id and name.
func NewAuthorRegistry(authors []Author) *AuthorRegistry {
	r := &AuthorRegistry{
		byID:   make(map[int64]*Author, len(authors)),
		byName: make(map[string]*Author, len(authors)),
	}
	stored := make([]Author, len(authors))
	copy(stored, authors)
	for i := range stored {
		a := &stored[i]
		r.byID[a.ID] = a
		r.byName[a.Name] = a
	}
	return r
}

// ByID looks an author up by id.
func (r *AuthorRegistry) ByID(id int64) (*Author, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// ByName looks an author up by exact name.
func (r *AuthorRegistry) ByName(name string) (*Author, bool) {
	a, ok := r.byName[name]
	return a, ok
}

// NeighborDepth walks the similar-author graph from one author to
// another, breadth first, and returns the hop count if the target is
// reachable within maxDepth hops, otherwise 0. The depth bound keeps
// the curated graph traversal auditable.
func (r *AuthorRegistry) NeighborDepth(fromID, toID int64, maxDepth int) int {
	if fromID == toID {
		return 0
	}
	visited := map[int64]bool{fromID: true}
	frontier := []int64{fromID}
	for depth := 1; depth <= maxDepth; depth++ {
		var next []int64
		for _, id := range frontier {
			a, ok := r.byID[id]
			if !ok {
				continue
			}
			for _, nb := range a.SimilarIDs {
				if nb == toID {
					return depth
				}
				if !visited[nb] {
					visited[nb] = true
					next = append(next, nb)
				}
			}
		}
		frontier = next
	}
	return 0
}

// Lists reports whether author a names author b as a similar author.
func (r *AuthorRegistry) Lists(aID, bID int64) bool {
	a, ok := r.byID[aID]
	if !ok {
		return false
	}
	for _, id := range a.SimilarIDs {
		if id == bID {
			return true
		}
	}
	return false
}
