package localgallery

import (
	"context"
	"io/fs"
	"log/slog"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"

	"agri_trade/internal/lib/logger/sl"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".gif":  {},
	".bmp":  {},
	".tiff": {},
	".heic": {},
	".heif": {},
}

const (
	galleryID          = "local-gallery"
	galleryTitle       = "Gallery"
	galleryDescription = "Highlights from metal and agriculture."
)

type Collection struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
}

type Image struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

type Gallery struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Images      []Image `json:"images"`
}

type AssetResolver interface {
	Resolve(ctx context.Context, path string) string
}

// Service собирает галерею из папок со статикой
type Service struct {
	log         *slog.Logger
	public      fs.FS
	collections []Collection
	resolver    AssetResolver
}

func New(log *slog.Logger, public fs.FS, collections []Collection, resolver AssetResolver) *Service {
	return &Service{
		log:         log,
		public:      public,
		collections: collections,
		resolver:    resolver,
	}
}

// Galleries возвращает одну галерею, коллекции чередуются по кругу
func (s *Service) Galleries(ctx context.Context) []Gallery {
	const op = "localgallery.Service.Galleries"
	log := s.log.With(slog.String("op", op))

	perCollection := make([][]Image, len(s.collections))
	maxLen := 0

	for ci, c := range s.collections {
		entries, err := fs.ReadDir(s.public, c.ID)
		if err != nil {
			log.Warn("unable to read gallery folder", slog.String("collection", c.ID), sl.Err(err))
			continue
		}

		files := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() || !isImageFile(e.Name()) {
				continue
			}
			files = append(files, e.Name())
		}
		sort.SliceStable(files, func(i, j int) bool {
			return lessNumeric(files[i], files[j])
		})

		images := make([]Image, 0, len(files))
		for i, f := range files {
			images = append(images, Image{
				ID:    c.ID + "-" + strconv.Itoa(i+1),
				URL:   s.resolver.Resolve(ctx, publicPath(c.ID, f)),
				Title: c.Title,
			})
		}

		perCollection[ci] = images
		if len(images) > maxLen {
			maxLen = len(images)
		}
	}

	interleaved := make([]Image, 0)
	for i := 0; i < maxLen; i++ {
		for _, images := range perCollection {
			if i < len(images) {
				interleaved = append(interleaved, images[i])
			}
		}
	}

	return []Gallery{{
		ID:          galleryID,
		Title:       galleryTitle,
		Description: galleryDescription,
		Images:      interleaved,
	}}
}

func isImageFile(name string) bool {
	_, ok := imageExtensions[strings.ToLower(path.Ext(name))]
	return ok
}

func publicPath(folder, file string) string {
	return "/" + url.PathEscape(folder) + "/" + url.PathEscape(file)
}

// lessNumeric сравнивает по ведущему числу, если оно есть у обоих имён
func lessNumeric(a, b string) bool {
	na, okA := leadingInt(a)
	nb, okB := leadingInt(b)
	if okA && okB && na != nb {
		return na < nb
	}
	if okA && okB {
		return false
	}
	return a < b
}

func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
