package gff

// chromDisplayNames maps FlyBase, Ensembl human and mouse chromosome names to
// UCSC-style display names.
var chromDisplayNames = map[string]string{
	"2L": "chr2L",
	"2R": "chr2R",
	"3L": "chr3L",
	"3R": "chr3R",
	"1":  "chr1",
	"2":  "chr2",
	"3":  "chr3",
	"4":  "chr4",
	"5":  "chr5",
	"6":  "chr6",
	"7":  "chr7",
	"8":  "chr8",
	"9":  "chr9",
	"10": "chr10",
	"11": "chr11",
	"12": "chr12",
	"13": "chr13",
	"14": "chr14",
	"15": "chr15",
	"16": "chr16",
	"17": "chr17",
	"18": "chr18",
	"19": "chr19",
	"X":  "chrX",
	"Y":  "chrY",
	"MT": "chrM",

	"mitochondrion_genome": "chrM",
}

// ChromDisplayName returns the UCSC-style name for chrom.
// Names not in the table are returned unchanged.
func ChromDisplayName(chrom string) string {
	if name, ok := chromDisplayNames[chrom]; ok {
		return name
	}
	return chrom
}
