package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/LJTian/NewsSieve/internal/collector"
	"github.com/LJTian/NewsSieve/internal/matcher"
)

var (
	ErrNoGroups      = errors.New("keywords file must define at least one group")
	ErrDuplicateName = errors.New("duplicate keyword group name")
	ErrUnknownSite   = errors.New("unknown site in keywords file")
)

// File 关键词分组与站点选择器覆盖
type File struct {
	Groups []matcher.KeywordGroup          `yaml:"groups"`
	Sites  map[string]collector.SiteConfig `yaml:"sites"`
}

// LoadFile 读取 YAML 配置；path 为空时返回内置分组
func LoadFile(path string) (*File, error) {
	if path == "" {
		return &File{Groups: DefaultGroups()}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keywords file %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse keywords file %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("keywords file %s: %w", path, err)
	}
	return &f, nil
}

func (f *File) Validate() error {
	if len(f.Groups) == 0 {
		return ErrNoGroups
	}
	seen := make(map[string]struct{}, len(f.Groups))
	for _, g := range f.Groups {
		if _, ok := seen[g.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateName, g.Name)
		}
		seen[g.Name] = struct{}{}
	}
	for name := range f.Sites {
		switch collector.Source(name) {
		case collector.SourceNewsis, collector.SourceYonhap:
		default:
			return fmt.Errorf("%w: %q", ErrUnknownSite, name)
		}
	}
	return nil
}

// Adapters 按固定顺序（뉴시스、연합뉴스）构建站点适配器，并应用文件中的覆盖
func (f *File) Adapters() []collector.Adapter {
	loc := Location()
	newsis := collector.NewsisConfig(loc).Merge(f.Sites[string(collector.SourceNewsis)])
	yonhap := collector.YonhapConfig(loc).Merge(f.Sites[string(collector.SourceYonhap)])
	return []collector.Adapter{
		collector.NewNewsisAdapter(newsis),
		collector.NewYonhapAdapter(yonhap),
	}
}

// DefaultGroups 서울 사회부 출입처별 기본 키워드
func DefaultGroups() []matcher.KeywordGroup {
	return []matcher.KeywordGroup{
		{Name: "시경", Keywords: []string{"서울경찰청"}},
		{Name: "본청", Keywords: []string{"경찰청"}},
		{Name: "종혜북", Keywords: []string{
			"종로", "종암", "성북", "고려대", "참여연대", "혜화", "동대문", "중랑",
			"성균관대", "한국외대", "서울시립대", "경희대", "경실련", "서울대병원",
			"노원", "강북", "도봉", "북부지법", "북부지검", "상계백병원", "국가인권위원회",
		}},
		{Name: "마포중부", Keywords: []string{
			"마포", "서대문", "서부", "은평", "서부지검", "서부지법", "연세대",
			"신촌세브란스병원", "군인권센터", "중부", "남대문", "용산", "동국대",
			"숙명여대", "순천향대병원",
		}},
		{Name: "영등포관악", Keywords: []string{
			"영등포", "양천", "구로", "강서", "남부지검", "남부지법", "여의도성모병원",
			"고대구로병원", "관악", "금천", "동작", "방배", "서울대", "중앙대", "숭실대", "보라매병원",
		}},
		{Name: "강남광진", Keywords: []string{
			"강남", "서초", "수서", "송파", "강동", "삼성의료원", "현대아산병원",
			"강남세브란스병원", "광진", "성동", "동부지검", "동부지법", "한양대",
			"건국대", "세종대",
		}},
	}
}
