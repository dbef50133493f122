package ingest

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"gamegraph/graphdb"
)

// Build adds every record to a new graph. Each game is added first and then
// linked to its developers, categories, tags and genres in that order.
func Build(records []Record) (*graphdb.Graph, error) {
	g := graphdb.NewGraph()
	for _, rec := range records {
		g.AddGame(rec.Name, graphdb.GameInfo{
			Price:       rec.Price,
			RatingScore: rec.RatingScore,
			Platforms:   rec.Platforms,
		})
		groups := []struct {
			kind  graphdb.Kind
			items []string
		}{
			{graphdb.KindDeveloper, rec.Developers},
			{graphdb.KindCategory, rec.Categories},
			{graphdb.KindTag, rec.Tags},
			{graphdb.KindGenre, rec.Genres},
		}
		for _, grp := range groups {
			for _, item := range grp.items {
				g.AddVertex(item, grp.kind)
				if err := g.AddEdge(rec.Name, graphdb.KindGame, item, grp.kind); err != nil {
					return nil, errors.Wrapf(err, "linking %q to %s %q", rec.Name, grp.kind, item)
				}
			}
		}
	}
	return g, nil
}

// LoadGameGraph reads the catalog at path and builds its graph
func LoadGameGraph(path string) (*graphdb.Graph, error) {
	log := logrus.WithFields(logrus.Fields{
		"component": "Ingest",
		"path":      path,
	})
	log.Info("Loading game catalog")

	f, err := os.Open(path)
	if err != nil {
		log.WithError(err).Error("Failed to open catalog")
		return nil, errors.WithHint(errors.Wrapf(err, "open catalog %s", path),
			"set data.path in the config or pass --data")
	}
	defer f.Close()

	records, sum, err := ReadRecords(f)
	if err != nil {
		log.WithError(err).Error("Failed to read catalog")
		return nil, err
	}
	g, err := Build(records)
	if err != nil {
		log.WithError(err).Error("Failed to build graph")
		return nil, err
	}

	stats := g.Stats()
	log.WithFields(logrus.Fields{
		"rows":        sum.Rows,
		"accepted":    sum.Accepted,
		"non_english": sum.NonEnglish,
		"invalid":     sum.Invalid,
		"vertices":    stats.Vertices,
		"edges":       stats.Edges,
	}).Info("Game graph loaded")
	return g, nil
}
