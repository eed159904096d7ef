package models

import "time"

// Transaction is a single Superstore order line. Records are immutable
// once loaded; analyzers derive new rows and never retain pointers back.
type Transaction struct {
	OrderID      string
	OrderDate    time.Time
	CustomerID   string
	CustomerName string
	Segment      string
	ProductName  string
	Category     string
	SubCategory  string
	Sales        float64
	Quantity     int
	Discount     float64
	Profit       float64
	Region       string
	State        string
	City         string
}

// GlobalKPI is the headline summary of a filtered view.
type GlobalKPI struct {
	CATotal        float64 `json:"ca_total"`
	NbCommandes    int     `json:"nb_commandes"`
	NbClients      int     `json:"nb_clients"`
	PanierMoyen    float64 `json:"panier_moyen"`
	QuantiteVendue int     `json:"quantite_vendue"`
	ProfitTotal    float64 `json:"profit_total"`
	MargeMoyenne   float64 `json:"marge_moyenne"`
}

// BCG quadrant labels.
const (
	QuadrantStar         = "Star"
	QuadrantCashCow      = "CashCow"
	QuadrantQuestionMark = "QuestionMark"
	QuadrantDog          = "Dog"
)

type BCGProduct struct {
	Produit       string  `json:"produit"`
	Categorie     string  `json:"categorie"`
	SousCategorie string  `json:"sous_categorie"`
	CAActuel      float64 `json:"ca_actuel"`
	CAPrecedent   float64 `json:"ca_precedent"`
	PartMarche    float64 `json:"part_marche"`
	Croissance    float64 `json:"croissance"`
	Nouveau       bool    `json:"nouveau"`
	Profit        float64 `json:"profit"`
	MargePct      float64 `json:"marge_pct"`
	Quadrant      string  `json:"quadrant"`
}

type BCGThresholds struct {
	PartMarcheMediane float64 `json:"part_marche_mediane"`
	CroissanceMediane float64 `json:"croissance_mediane"`
	AnneeActuelle     int     `json:"annee_actuelle"`
	AnneePrecedente   int     `json:"annee_precedente"`
}

type BCGRepartition struct {
	Etoiles    int `json:"etoiles"`
	Vaches     int `json:"vaches"`
	Dilemmes   int `json:"dilemmes"`
	PoidsMorts int `json:"poids_morts"`
}

type BCGResult struct {
	Data        []BCGProduct   `json:"data"`
	Seuils      BCGThresholds  `json:"seuils"`
	Repartition BCGRepartition `json:"repartition"`
}

type LowMarginProduct struct {
	Produit       string  `json:"produit"`
	Categorie     string  `json:"categorie"`
	SousCategorie string  `json:"sous_categorie"`
	CA            float64 `json:"ca"`
	Profit        float64 `json:"profit"`
	MargePct      float64 `json:"marge_pct"`
	Quantite      int     `json:"quantite"`
	DiscountMoyen float64 `json:"discount_moyen"`
	Alerte        string  `json:"alerte"`
}

type LowMarginStats struct {
	NbProduits   int     `json:"nb_produits_faible_marge"`
	CATotal      float64 `json:"ca_total_faible_marge"`
	ProfitTotal  float64 `json:"profit_total_faible_marge"`
	PctCATotal   float64 `json:"pct_ca_total"`
	NbPertes     int     `json:"nb_produits_perte"`
	SeuilUtilise float64 `json:"seuil_utilise"`
}

type LowMarginResult struct {
	Data         []LowMarginProduct `json:"data"`
	Statistiques LowMarginStats     `json:"statistiques"`
}

type TopProduct struct {
	Produit   string  `json:"produit"`
	Categorie string  `json:"categorie"`
	CA        float64 `json:"ca"`
	Quantite  int     `json:"quantite"`
	Profit    float64 `json:"profit"`
}

type CategoryPerformance struct {
	Categorie   string  `json:"categorie"`
	CA          float64 `json:"ca"`
	Profit      float64 `json:"profit"`
	NbCommandes int     `json:"nb_commandes"`
	MargePct    float64 `json:"marge_pct"`
}

// Waterfall entry types.
const (
	WaterfallCategory = "category"
	WaterfallTotal    = "total"
)

type WaterfallEntry struct {
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Cumul    float64 `json:"cumul"`
	Type     string  `json:"type"`
	CA       float64 `json:"ca"`
	MargePct float64 `json:"marge_pct"`
}

type SubCategoryDetail struct {
	Categorie       string  `json:"categorie"`
	SousCategorie   string  `json:"sous_categorie"`
	Profit          float64 `json:"profit"`
	CA              float64 `json:"ca"`
	MargePct        float64 `json:"marge_pct"`
	ContributionPct float64 `json:"contribution_pct"`
}

type WaterfallResult struct {
	Waterfall            []WaterfallEntry    `json:"waterfall"`
	DetailSousCategories []SubCategoryDetail `json:"detail_sous_categories"`
	ProfitTotal          float64             `json:"profit_total"`
	CATotal              float64             `json:"ca_total"`
}

// Performance/margin quadrant labels.
const (
	QuadrantPriority = "Priority"
	QuadrantOptimize = "Optimize"
	QuadrantDevelop  = "Develop"
	QuadrantAbandon  = "Abandon"
)

type MatrixEntry struct {
	Categorie     string  `json:"categorie"`
	SousCategorie string  `json:"sous_categorie"`
	CA            float64 `json:"ca"`
	Profit        float64 `json:"profit"`
	MargePct      float64 `json:"marge_pct"`
	Quantite      int     `json:"quantite"`
	NbCommandes   int     `json:"nb_commandes"`
	Quadrant      string  `json:"quadrant"`
}

type MatrixThresholds struct {
	CAMedian    float64 `json:"ca_median"`
	MargeMedian float64 `json:"marge_median"`
}

type MatrixRepartition struct {
	Priorite   int `json:"priorite"`
	Optimiser  int `json:"optimiser"`
	Developper int `json:"developper"`
	Abandonner int `json:"abandonner"`
}

type MatrixResult struct {
	Data        []MatrixEntry     `json:"data"`
	Seuils      MatrixThresholds  `json:"seuils"`
	Repartition MatrixRepartition `json:"repartition"`
}

// MonthlyPoint is one month of the advanced temporal series. Pointer
// fields are null when the measure has no defined value (no prior
// baseline, incomplete moving-average window, missing prior-year month).
type MonthlyPoint struct {
	Periode       string   `json:"periode"`
	Year          int      `json:"year"`
	Month         int      `json:"month"`
	CA            float64  `json:"ca"`
	Profit        float64  `json:"profit"`
	NbCommandes   int      `json:"nb_commandes"`
	Quantite      int      `json:"quantite"`
	CAMM3         *float64 `json:"ca_mm3"`
	ProfitMM3     *float64 `json:"profit_mm3"`
	CroissancePct *float64 `json:"croissance_pct"`
	CAN1          *float64 `json:"ca_n1"`
	ProfitN1      *float64 `json:"profit_n1"`
	VariationYoY  *float64 `json:"variation_yoy"`
}

type TrendStats struct {
	CAMoyenMensuel float64 `json:"ca_moyen_mensuel"`
	MeilleurMois   string  `json:"meilleur_mois"`
	PireMois       string  `json:"pire_mois"`
}

type MonthlyTrendResult struct {
	Data              []MonthlyPoint `json:"data"`
	AnneesDisponibles []int          `json:"annees_disponibles"`
	Statistiques      TrendStats     `json:"statistiques"`
}

type SeasonalityRow struct {
	Month      int      `json:"month"`
	MonthName  string   `json:"month_name"`
	CAMoyen    float64  `json:"ca_moyen"`
	Indice     float64  `json:"indice_saisonnalite"`
	Volatilite *float64 `json:"volatilite"`
}

type SeasonalityStats struct {
	MoisPic     string  `json:"mois_pic"`
	IndicePic   float64 `json:"indice_pic"`
	MoisCreux   string  `json:"mois_creux"`
	IndiceCreux float64 `json:"indice_creux"`
}

type SeasonalityResult struct {
	Data         []SeasonalityRow `json:"data"`
	Statistiques SeasonalityStats `json:"statistiques"`
}

type EvolutionPoint struct {
	Periode     string  `json:"periode"`
	CA          float64 `json:"ca"`
	Profit      float64 `json:"profit"`
	NbCommandes int     `json:"nb_commandes"`
	Quantite    int     `json:"quantite"`
}

type RegionPerformance struct {
	Region      string  `json:"region"`
	CA          float64 `json:"ca"`
	Profit      float64 `json:"profit"`
	NbClients   int     `json:"nb_clients"`
	NbCommandes int     `json:"nb_commandes"`
}

type StatePerformance struct {
	Etat               string  `json:"etat"`
	Region             string  `json:"region"`
	CA                 float64 `json:"ca"`
	Profit             float64 `json:"profit"`
	MargePct           float64 `json:"marge_pct"`
	NbClients          int     `json:"nb_clients"`
	NbCommandes        int     `json:"nb_commandes"`
	CAParClient        float64 `json:"ca_par_client"`
	CommandesParClient float64 `json:"commandes_par_client"`
	Quantite           int     `json:"quantite"`
	Performance        string  `json:"performance"`
}

type StateThresholds struct {
	MargeMedian float64 `json:"marge_median"`
	CAMedian    float64 `json:"ca_median"`
}

type StateResult struct {
	Data   []StatePerformance `json:"data"`
	Seuils StateThresholds    `json:"seuils"`
}

type CityRow struct {
	Ville       string  `json:"ville"`
	Etat        string  `json:"etat"`
	Region      string  `json:"region"`
	CA          float64 `json:"ca"`
	Profit      float64 `json:"profit"`
	MargePct    float64 `json:"marge_pct"`
	NbClients   int     `json:"nb_clients"`
	CAParClient float64 `json:"ca_par_client"`
}

type CityStats struct {
	NbVillesTotal     int     `json:"nb_villes_total"`
	CAMoyenVille      float64 `json:"ca_moyen_ville"`
	ClientsMoyenVille float64 `json:"clients_moyen_ville"`
}

type CityRankings struct {
	TopCA          []CityRow `json:"top_ca"`
	TopMarge       []CityRow `json:"top_marge"`
	TopCAParClient []CityRow `json:"top_ca_par_client"`
	Statistiques   CityStats `json:"statistiques"`
}

type TopClient struct {
	CustomerID        string  `json:"customer_id"`
	Nom               string  `json:"nom"`
	CATotal           float64 `json:"ca_total"`
	ProfitTotal       float64 `json:"profit_total"`
	NbCommandes       int     `json:"nb_commandes"`
	ValeurCommandeMoy float64 `json:"valeur_commande_moy"`
}

type Recurrence struct {
	ClientsUnAchat    int     `json:"clients_1_achat"`
	ClientsRecurrents int     `json:"clients_recurrents"`
	NbCommandesMoyen  float64 `json:"nb_commandes_moyen"`
	TotalClients      int     `json:"total_clients"`
}

type SegmentPerformance struct {
	Segment   string  `json:"segment"`
	CA        float64 `json:"ca"`
	Profit    float64 `json:"profit"`
	NbClients int     `json:"nb_clients"`
}

type CustomerResult struct {
	TopClients []TopClient          `json:"top_clients"`
	Recurrence Recurrence           `json:"recurrence"`
	Segments   []SegmentPerformance `json:"segments"`
}

type DateRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

type FilterValues struct {
	Categories []string  `json:"categories"`
	Regions    []string  `json:"regions"`
	Segments   []string  `json:"segments"`
	Etats      []string  `json:"etats"`
	PlageDates DateRange `json:"plage_dates"`
}
