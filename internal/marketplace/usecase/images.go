package usecase

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// imageObjectKey builds adImages/{adID}/{uuid}-{slug}{.ext} from an upload's file name.
func imageObjectKey(adID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	name := slug.Make(base)
	if name == "" {
		name = "image"
	}
	return fmt.Sprintf("adImages/%s/%s-%s%s", adID, uuid.NewString(), name, ext)
}
