package mapping

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/errors"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/fsutil"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/model"
)

// LinksSuffix ends every per-player links file name.
const LinksSuffix = "_potential_links.txt"

// LinksPath is where WriteLinks puts player's list.
func LinksPath(dir, player string) string {
	return filepath.Join(dir, player+LinksSuffix)
}

// WriteLinks writes one file per player listing the source URLs of records,
// one per line, in record order. A person picks from these lists to build the
// chosen links file read by the downloader. Players are written in order of
// first appearance and the paths are returned in that order.
func WriteLinks(dir string, records []model.ClipRecord) ([]string, error) {
	var players []string
	urls := make(map[string][]string)
	for _, r := range records {
		if _, ok := urls[r.PlayerName]; !ok {
			players = append(players, r.PlayerName)
		}
		urls[r.PlayerName] = append(urls[r.PlayerName], r.SourceURL)
	}

	paths := make([]string, 0, len(players))
	for _, player := range players {
		path := LinksPath(dir, player)
		err := fsutil.WriteFileAtomic(path, func(w io.Writer) error {
			for _, u := range urls[player] {
				if _, err := fmt.Fprintln(w, u); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return paths, errors.Wrap(err, errors.MappingError, "Failed to write potential links", errors.ErrLinksWrite)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
