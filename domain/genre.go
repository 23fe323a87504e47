package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidGenre is returned when a genre id or name is not in the registry.
var ErrInvalidGenre = errors.New("invalid genre")

// Genre is the stable numeric id of a catalog genre. The zero value is not
// a valid genre.
type Genre int

const (
	GenreRock Genre = iota + 1
	GenrePop
	GenreJazz
	GenreBlues
	GenreHipHop
	GenreRap
	GenreElectronic
	GenreReggaeton
	GenreFlamenco
	GenreClassical
	GenreMetal
	GenrePunk
	GenreIndie
	GenreFolk
	GenreCountry
	GenreRnB
	GenreSoul
	GenreFunk
	GenreReggae
	GenreSalsa
	GenreBachata
	GenreCumbia
	GenreTrap
	GenreHouse
	GenreTechno
	GenreLatin
	GenreAlternative
	GenreGospel
	GenreKPop
	GenreOther
)

var genreNames = map[Genre]string{
	GenreRock:        "Rock",
	GenrePop:         "Pop",
	GenreJazz:        "Jazz",
	GenreBlues:       "Blues",
	GenreHipHop:      "Hip Hop",
	GenreRap:         "Rap",
	GenreElectronic:  "Electrónica",
	GenreReggaeton:   "Reggaeton",
	GenreFlamenco:    "Flamenco",
	GenreClassical:   "Clásica",
	GenreMetal:       "Metal",
	GenrePunk:        "Punk",
	GenreIndie:       "Indie",
	GenreFolk:        "Folk",
	GenreCountry:     "Country",
	GenreRnB:         "R&B",
	GenreSoul:        "Soul",
	GenreFunk:        "Funk",
	GenreReggae:      "Reggae",
	GenreSalsa:       "Salsa",
	GenreBachata:     "Bachata",
	GenreCumbia:      "Cumbia",
	GenreTrap:        "Trap",
	GenreHouse:       "House",
	GenreTechno:      "Techno",
	GenreLatin:       "Latina",
	GenreAlternative: "Alternativa",
	GenreGospel:      "Gospel",
	GenreKPop:        "K-Pop",
	GenreOther:       "Otro",
}

// Built once from genreNames; never written afterwards.
var (
	genresByName = make(map[string]Genre, len(genreNames))
	genreIDs     = make([]int, 0, len(genreNames))
)

func init() {
	for g, name := range genreNames {
		genresByName[strings.ToLower(name)] = g
		genreIDs = append(genreIDs, int(g))
	}
	sort.Ints(genreIDs)
}

// GenreByID resolves a numeric id.
func GenreByID(id int) (Genre, error) {
	g := Genre(id)
	if _, ok := genreNames[g]; !ok {
		return 0, fmt.Errorf("%w: unknown genre id %d", ErrInvalidGenre, id)
	}
	return g, nil
}

// GenreByName resolves a display name, ignoring case and surrounding spaces.
func GenreByName(name string) (Genre, error) {
	g, ok := genresByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown genre name %q", ErrInvalidGenre, name)
	}
	return g, nil
}

func GenreExists(id int) bool {
	_, ok := genreNames[Genre(id)]
	return ok
}

// GenreIDs returns every registered id in ascending order.
func GenreIDs() []int {
	out := make([]int, len(genreIDs))
	copy(out, genreIDs)
	return out
}

// GenreNames returns every display name ordered by id.
func GenreNames() []string {
	out := make([]string, 0, len(genreIDs))
	for _, id := range genreIDs {
		out = append(out, genreNames[Genre(id)])
	}
	return out
}

func (g Genre) ID() int { return int(g) }

// Name returns the display name, or "" for an unregistered value.
func (g Genre) Name() string { return genreNames[g] }

func (g Genre) Valid() bool { return GenreExists(int(g)) }

func (g Genre) String() string {
	if name, ok := genreNames[g]; ok {
		return name
	}
	return fmt.Sprintf("Genre(%d)", int(g))
}
