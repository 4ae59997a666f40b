package francetravail

import (
	"net/http"

	"golang.org/x/time/rate"
)

// Config defines France Travail "Offres d'emploi v2" client settings
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	BaseURL      string
	Scopes       []string
	HTTPClient   *http.Client
	// RatePerSecond caps outgoing requests; zero means unlimited
	RatePerSecond float64
}

// Client queries the France Travail job offers API
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// SearchParams describe one search call. Zero values are omitted.
type SearchParams struct {
	MotsCles      string
	PublieeDepuis int
	TypeContrat   []string
	Experience    []string
	SalaireMin    float64
	Alternance    bool
	// Start and End are the inclusive 0-based range of offers to fetch
	Start int
	End   int
}

// SearchResponse is the raw search payload plus the total parsed from the
// Content-Range header.
type SearchResponse struct {
	Resultats []Offre `json:"resultats"`
	Total     int     `json:"-"`
}

// Offre is one raw France Travail offer. Every field may be missing.
type Offre struct {
	ID                     string       `json:"id"`
	Intitule               string       `json:"intitule"`
	Description            string       `json:"description"`
	DateCreation           string       `json:"dateCreation"`
	DateActualisation      string       `json:"dateActualisation"`
	LieuTravail            LieuTravail  `json:"lieuTravail"`
	Entreprise             Entreprise   `json:"entreprise"`
	TypeContrat            string       `json:"typeContrat"`
	TypeContratLibelle     string       `json:"typeContratLibelle"`
	NatureContrat          string       `json:"natureContrat"`
	ExperienceExige        string       `json:"experienceExige"`
	ExperienceLibelle      string       `json:"experienceLibelle"`
	Salaire                Salaire      `json:"salaire"`
	Alternance             bool         `json:"alternance"`
	Competences            []Competence `json:"competences"`
	OrigineOffre           OrigineOffre `json:"origineOffre"`
	NombrePostes           int          `json:"nombrePostes"`
	QualificationLibelle   string       `json:"qualificationLibelle"`
	SecteurActiviteLibelle string       `json:"secteurActiviteLibelle"`
}

type LieuTravail struct {
	Libelle    string `json:"libelle"`
	CodePostal string `json:"codePostal"`
	Commune    string `json:"commune"`
}

type Entreprise struct {
	Nom  string `json:"nom"`
	Logo string `json:"logo"`
}

type Salaire struct {
	Libelle     string `json:"libelle"`
	Commentaire string `json:"commentaire"`
}

type Competence struct {
	Code    string `json:"code"`
	Libelle string `json:"libelle"`
}

type OrigineOffre struct {
	URLOrigine string `json:"urlOrigine"`
}
