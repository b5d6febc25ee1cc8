// Package gff parses GFF3-style feature annotation records.
package gff

// Kind is the coarse classification of a feature category.
type Kind int

const (
	// Unknown categories are neither allowed nor denied. Records are dropped
	// and the category is reported.
	Unknown Kind = iota
	// Denied categories are structural or meta features that are never part
	// of the gene model. Records are dropped silently.
	Denied
	// Accepted categories are stored in the feature graph.
	Accepted
)

// Tier is the role of an accepted category in the gene hierarchy.
type Tier int

const (
	TierNone Tier = iota
	TierTopLevel
	TierTranscript
	TierTranscriptPart
	TierOther // accepted, stored, never emitted
)

func (t Tier) String() string {
	switch t {
	case TierTopLevel:
		return "top-level"
	case TierTranscript:
		return "transcript"
	case TierTranscriptPart:
		return "transcript-part"
	case TierOther:
		return "other"
	}
	return "none"
}

// Class is the result of classifying a category.
type Class struct {
	Kind Kind
	Tier Tier
}

var denied = setOf(
	"BAC_cloned_genomic_insert", "DNA_motif", "RNAi_reagent",
	"TF_binding_site", "breakpoint", "chromosome", "chromosome_band",
	"complex_substitution", "deletion", "enhancer", "exon_junction",
	"golden_path_region", "insertion_site",
	"insulator", "match", "match_part", "mature_peptide",
	"modified_RNA_base_feature", "oligonucleotide",
	"origin_of_replication", "orthologous_region", "orthologous_to",
	"pcr_product", "point_mutation", "polyA_site",
	"protein", "protein_binding_site", "region", "regulatory_region",
	"repeat_region", "rescue_fragment", "sequence_variant",
	"silencer", "syntenic_region", "tandem_repeat",
	"transcription_start_site",
	"transposable_element_insertion_site",
	"uncharacterized_change_in_nucleotide_sequence",
	"biological_region", "supercontig", "start_codon",
	"stop_codon",
)

// allowed is kept alongside denied so categories nobody anticipated are
// surfaced instead of being silently stored.
var allowed = setOf(
	"CDS", "exon", "five_prime_UTR", "gene", "mRNA", "miRNA", "ncRNA",
	"pre_miRNA", "pseudogene", "rRNA", "snRNA", "snoRNA",
	"three_prime_UTR", "tRNA", "transposable_element", "lnc_RNA",
	"transcript", "ncRNA_gene", "pseudogenic_transcript", "scRNA",
	"intron", "C_gene_segment", "J_gene_segment", "D_gene_segment",
	"V_gene_segment", "gene_segment", "miRNA_5p", "miRNA_3p",
	"miRNA_precursor", "noncoding_exon",
)

var topLevel = setOf(
	"gene", "transposable_element", "miRNA",
	"miRNA_5p", "miRNA_3p", "miRNA_precursor",
)

var transcripts = setOf(
	"mRNA", "miRNA", "ncRNA", "pre_miRNA", "pseudogene",
	"rRNA", "snRNA", "snoRNA", "tRNA", "C_gene_segment",
	"J_gene_segment", "D_gene_segment", "V_gene_segment",
	"gene_segment",
)

var transcriptParts = setOf(
	"exon", "five_prime_UTR", "three_prime_UTR", "CDS", "intron",
)

// Classify returns the class of a feature category.
// TopLevel takes precedence over Transcript (miRNA is listed in both).
func Classify(category string) Class {
	if denied[category] {
		return Class{Kind: Denied}
	}
	if !allowed[category] {
		return Class{Kind: Unknown}
	}
	switch {
	case topLevel[category]:
		return Class{Kind: Accepted, Tier: TierTopLevel}
	case transcripts[category]:
		return Class{Kind: Accepted, Tier: TierTranscript}
	case transcriptParts[category]:
		return Class{Kind: Accepted, Tier: TierTranscriptPart}
	}
	return Class{Kind: Accepted, Tier: TierOther}
}

// IsAnonymousPart reports whether features of this category are commonly
// written without an ID.
func IsAnonymousPart(category string) bool {
	return transcriptParts[category]
}

func setOf(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, s := range items {
		m[s] = true
	}
	return m
}
