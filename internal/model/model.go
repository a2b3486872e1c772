// Package model holds the normalized legal data model shared by the
// store, parser, and coordinator packages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// ID is a 128-bit opaque identifier backed by a UUID.
type ID = uuid.UUID

type Court struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
	Level  string `json:"level"`
}

type Judge struct {
	ID       ID     `json:"id"`
	FullName string `json:"full_name"`
	CourtRef ID     `json:"court_ref"`
}

type CaseStatus string

const (
	CaseStatusOpen   CaseStatus = "open"
	CaseStatusClosed CaseStatus = "closed"
)

type Case struct {
	ID             ID         `json:"id"`
	RegistryNumber string     `json:"registry_number"`
	CourtRef       ID         `json:"court_ref"`
	Category       string     `json:"category"`
	OpenedAt       time.Time  `json:"opened_at"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
	Status         CaseStatus `json:"status"`
}

type DocumentType string

const (
	DocumentTypeDecision DocumentType = "decision"
	DocumentTypeRuling   DocumentType = "ruling"
	DocumentTypeOrder    DocumentType = "order"
)

type Document struct {
	ID                ID           `json:"id"`
	CaseRef           ID           `json:"case_ref"`
	Type              DocumentType `json:"type"`
	CurrentVersionRef *ID          `json:"current_version_ref,omitempty"`
}

type DocumentVersion struct {
	ID              ID        `json:"id"`
	DocumentRef     ID        `json:"document_ref"`
	VersionNumber   int       `json:"version_number"`
	PublishedAt     time.Time `json:"published_at"`
	SourceURL       string    `json:"source_url"`
	SourceHash      string    `json:"source_hash"`
	RawStoragePath  string    `json:"raw_storage_path"`
	ParsedJSON      []byte    `json:"parsed_json,omitempty"`
}

type PartyType string

const (
	PartyTypePerson  PartyType = "person"
	PartyTypeCompany PartyType = "company"
	PartyTypeState   PartyType = "state"
)

type Party struct {
	ID             ID        `json:"id"`
	Type           PartyType `json:"type"`
	NormalizedName string    `json:"normalized_name"`
	TaxID          string    `json:"tax_id,omitempty"`
}

type CasePartyRole string

const (
	RolePlaintiff CasePartyRole = "plaintiff"
	RoleDefendant CasePartyRole = "defendant"
	RoleThirdParty CasePartyRole = "third_party"
)

type CaseParty struct {
	CaseRef  ID            `json:"case_ref"`
	PartyRef ID            `json:"party_ref"`
	Role     CasePartyRole `json:"role"`
}

// LawArticle is a canonical legal-norm reference, e.g. "CC 625".
type LawArticle struct {
	ID    ID     `json:"id"`
	Code  string `json:"code"`
	Title string `json:"title,omitempty"`
}

type DocumentLawRef struct {
	VersionRef ID `json:"version_ref"`
	ArticleRef ID `json:"article_ref"`
}

type DecisionResult string

const (
	ResultWon     DecisionResult = "won"
	ResultLost    DecisionResult = "lost"
	ResultPartial DecisionResult = "partial"
)

type DecisionOutcome struct {
	ID            ID             `json:"id"`
	VersionRef    ID             `json:"version_ref"`
	PartyRef      ID             `json:"party_ref"`
	Result        DecisionResult `json:"result"`
	AmountAwarded *string        `json:"amount_awarded,omitempty"` // decimal(20,2) as string
	Currency      string         `json:"currency,omitempty"`
}

type SectionType string

const (
	SectionFacts          SectionType = "FACTS"
	SectionClaims         SectionType = "CLAIMS"
	SectionArguments      SectionType = "ARGUMENTS"
	SectionLawReferences  SectionType = "LAW_REFERENCES"
	SectionCourtReasoning SectionType = "COURT_REASONING"
	SectionDecision       SectionType = "DECISION"
	SectionText           SectionType = "TEXT"
)

type DocumentSection struct {
	ID         ID          `json:"id"`
	VersionRef ID          `json:"version_ref"`
	SectionType SectionType `json:"section_type"`
	OrderIndex int         `json:"order_index"`
	Text       string      `json:"text"`
}

// EmbeddingVectorDim is the fixed dimensionality of every stored vector.
const EmbeddingVectorDim = 1536

type EmbeddingChunk struct {
	ID         ID        `json:"id"`
	SectionRef ID        `json:"section_ref"`
	ChunkIndex int       `json:"chunk_index"`
	Text       string    `json:"text"`
	Vector     []float32 `json:"vector"`
	TokenCount int       `json:"token_count"`
}

type RelationType string

const (
	RelationAppeal    RelationType = "appeal"
	RelationCassation RelationType = "cassation"
	RelationRetrial   RelationType = "retrial"
	RelationAmends    RelationType = "amends"
	RelationCancels   RelationType = "cancels"
	RelationRefers    RelationType = "refers"
)

type CaseRelation struct {
	FromCaseRef  ID           `json:"from_case_ref"`
	ToCaseRef    ID           `json:"to_case_ref"`
	RelationType RelationType `json:"relation_type"`
}

type DocumentRelation struct {
	FromVersionRef ID           `json:"from_version_ref"`
	ToVersionRef   ID           `json:"to_version_ref"`
	RelationType   RelationType `json:"relation_type"`
}

// VersionState is the per-document-version lifecycle state from spec §4.8.
type VersionState string

const (
	StateDiscovered VersionState = "DISCOVERED"
	StateFetched    VersionState = "FETCHED"
	StateParsed     VersionState = "PARSED"
	StatePersisted  VersionState = "PERSISTED"
	StateEmbedded   VersionState = "EMBEDDED"
	StateFailed     VersionState = "FAILED"
)
