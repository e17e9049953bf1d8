package markdown

import (
	"golang.org/x/text/language"
)

// Labels are the human-readable strings of the rendered document.
type Labels struct {
	// PostHeading is a format with the display name and the handle.
	PostHeading    string
	Author         string
	Published      string
	Video          string
	VideoThumbnail string
	Quoted         string
	Stats          string
	Source         string
	// Image is the alt text prefix of numbered media embeds.
	Image string
}

var English = Labels{
	PostHeading:    "%s (@%s)'s post",
	Author:         "Author",
	Published:      "📅 Published",
	Video:          "🎬 Video post",
	VideoThumbnail: "Video thumbnail",
	Quoted:         "Quoted post",
	Stats:          "Stats",
	Source:         "🔗 View original",
	Image:          "Image",
}

var Chinese = Labels{
	PostHeading:    "%s (@%s) 的推文",
	Author:         "作者",
	Published:      "📅 发布时间",
	Video:          "🎬 视频推文",
	VideoThumbnail: "视频缩略图",
	Quoted:         "引用推文",
	Stats:          "互动数据",
	Source:         "🔗 查看原文",
	Image:          "图片",
}

var (
	labelTags = []language.Tag{language.English, language.Chinese}
	labelSets = []Labels{English, Chinese}
	matcher   = language.NewMatcher(labelTags)
)

// LabelsFor picks the label set closest to a BCP 47 language tag such as
// "en", "zh-CN" or "zh-Hant". Unknown or empty tags get English.
func LabelsFor(lang string) Labels {
	tag, err := language.Parse(lang)
	if err != nil {
		return English
	}
	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No {
		return English
	}
	return labelSets[idx]
}
