package corpus

import (
	"fmt"

	"github.com/cognicore/codemix/pkg/codemix/internalerr"
	"github.com/cognicore/codemix/pkg/codemix/tagset"
)

// Entry names a corpus file together with its layout and tagset.
type Entry struct {
	ID      string
	File    string
	Options Options
	Tagset  tagset.ID
}

// DefaultCatalog lists the published code-mixing corpora by their short ids.
// File names are relative to the corpus directory.
func DefaultCatalog() []Entry {
	nita := Options{Format: Tagged, Separator: "§"}
	return []Entry{
		{ID: "test", File: "hndtest.txt", Options: nita, Tagset: tagset.NITA},

		// Das & Gambäck English-Bengali
		{ID: "bngtw", File: "en_bn_hi_lang-Final.txt", Options: Options{Format: Tagged, Separator: "£"}, Tagset: tagset.Das},

		// NITA English-Hindi: total, tweets, facebook
		{ID: "hndtot", File: "2583_Final_Gold__Lang_UB.txt", Options: nita, Tagset: tagset.NITA},
		{ID: "hndtw", File: "1181_TW_Final_Gold_Lang_UB.txt", Options: nita, Tagset: tagset.NITA},
		{ID: "hndfb", File: "1402_FB_Final_Gold_Lang_UB.txt", Options: nita, Tagset: tagset.NITA},

		// Nguyen & Dogruöz Dutch-Turkish
		{ID: "ned", File: "dong.txt", Options: Options{Format: Tagged, Separator: "/"}, Tagset: tagset.ND},

		// Vyas et al. English-Hindi
		{ID: "vyas", File: "Vyas.txt", Options: Options{Format: Tagged, Separator: "/"}, Tagset: tagset.Vyas},

		// FIRE English-Indian: Bengali, Hindi, Gujarati, Kannada
		{ID: "firebng", File: "BanglaEnglish_LIonly_AnnotatedDev.txt", Options: Options{Format: FIRE}, Tagset: tagset.FIRE},
		{ID: "firehnd", File: "HindiEnglish_LIonly_AnnotatedDev.txt", Options: Options{Format: FIRE}, Tagset: tagset.FIRE},
		{ID: "firegur", File: "GujaratiEnglish_LIonly_AnnotatedDev.txt", Options: Options{Format: FIRE}, Tagset: tagset.FIRE},
		{ID: "firekan", File: "KannadaEnglish_LIonly_AnnotatedDev.txt", Options: Options{Format: FIRE}, Tagset: tagset.FIRE},

		// EMNLP 2014 workshop: Mandarin, Nepali, Spanish, Arabic
		{ID: "cswsman", File: "mandarinTrain.txt", Options: Options{Format: CSWS14}, Tagset: tagset.CSWS14},
		{ID: "cswsnep", File: "nepali-english-final-training-data.txt", Options: Options{Format: CSWS14}, Tagset: tagset.CSWS14},
		{ID: "cswsesp", File: "en_es_training_offsets.txt", Options: Options{Format: CSWS14}, Tagset: tagset.CSWS14},
		{ID: "cswsarb", File: "arabicTrain-clean.txt", Options: Options{Format: CSWS14}, Tagset: tagset.CSWS14},

		// EMNLP 2016 workshop English-Spanish: train, dev
		{ID: "cswsest", File: "emnlp16_enestrain.txt", Options: Options{Format: CSWS16}, Tagset: tagset.CSWS16},
		{ID: "cswsesd", File: "emnlp16_enesdev.txt", Options: Options{Format: CSWS16}, Tagset: tagset.CSWS16},
	}
}

// Find returns the catalog entry with the given id.
func Find(catalog []Entry, id string) (Entry, error) {
	for _, e := range catalog {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: corpus %q", internalerr.ErrNotFound, id)
}
