package annotate

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	sent "github.com/revelaction/parlana/sentence"
	"github.com/revelaction/parlana/tei"
)

const (
	// LinkScheme is the type of the dependency link group.
	LinkScheme = "UD-SYN"

	// LinkFunc states that targets are ordered head first.
	LinkFunc = "head argument"

	// LinkPrefix is the private URI prefix of relation names, declared in
	// the corpus root as a prefixDef.
	LinkPrefix = "ud-syn"

	rootRelation    = "root"
	defaultRelation = "dep"
)

// linkGroup returns the <linkGrp> of sentence sid. ids maps token positions
// to the xml:id given to each token.
//
// The root token is linked from the sentence itself:
//
//	<link ana="ud-syn:root" target="#s #s.3"/>
func linkGroup(sid string, tokens []sent.Token, ids map[int]string) *xmlquery.Node {
	grp := tei.NewElement("linkGrp", "targFunc", LinkFunc, "type", LinkScheme)

	for _, t := range tokens {
		dep := tokenRef(sid, t.Id, ids)

		var link *xmlquery.Node
		if t.IsRoot() {
			link = tei.NewElement("link",
				"ana", LinkPrefix+":"+rootRelation,
				"target", "#"+sid+" #"+dep)
		} else {
			link = tei.NewElement("link",
				"ana", LinkPrefix+":"+relation(t.Dep),
				"target", "#"+tokenRef(sid, t.Head, ids)+" #"+dep)
		}

		xmlquery.AddChild(grp, link)
	}

	return grp
}

func tokenRef(sid string, pos int, ids map[int]string) string {
	if id, ok := ids[pos]; ok {
		return id
	}
	return sid + "." + strconv.Itoa(pos)
}

// relation returns the taxonomy category of a UD relation: subtypes are
// joined with an underscore (nsubj:pass -> nsubj_pass).
func relation(dep string) string {
	if dep == "" || dep == "_" {
		return defaultRelation
	}
	return strings.ReplaceAll(dep, ":", "_")
}
