package editor

import (
	"fmt"

	"lumina/internal/models"
)

// buildRatioPrompts expands a user edit prompt into one model instruction per
// aspect ratio. The square instruction applies the edit directly; the wide
// and tall ones additionally ask the model to out-paint the scene instead of
// letterboxing it.
func buildRatioPrompts(prompt string, quality models.PortraitQuality) map[string]string {
	qualityPhrase := "an HD (720x1280) phone wallpaper"
	if quality == models.QualityFHD {
		qualityPhrase = "a Full HD (1080x1920) phone wallpaper"
	}

	return map[string]string{
		models.RatioSquare: fmt.Sprintf(
			"Apply this edit: %q. Generate the result as a well-composed square image with a 1:1 aspect ratio.",
			prompt),
		models.RatioLandscape: fmt.Sprintf(
			"Apply this edit: %q. Re-render the entire scene within a wider, landscape 16:9 aspect ratio. "+
				"The new image should show more of the environment to the left and right of the original subject. "+
				"Imagine you are zooming out the camera to capture a wider view. "+
				"The original content should be naturally integrated into this larger, seamless scene. "+
				"Do not simply add bars or borders; generate new, consistent image data to fill the expanded space.",
			prompt),
		models.RatioPortrait: fmt.Sprintf(
			"Apply this edit: %q. Re-render the entire scene within a taller, portrait 9:16 aspect ratio, suitable for %s. "+
				"The new image should show more of the environment above and below the original subject. "+
				"Imagine you are tilting the camera up and down or zooming out to capture a taller view. "+
				"The original content should be naturally integrated into this larger, seamless scene. "+
				"Do not simply add bars or borders; generate new, consistent image data to fill the expanded space.",
			prompt, qualityPhrase),
	}
}

// PromptSuggestions is the curated prompt taxonomy shown to users who want
// inspiration. It is static; the model-backed suggester covers the video
// flow.
var PromptSuggestions = map[string][]string{
	"Artistic Styles": {
		"in the style of an oil painting",
		"make it cartoonish",
		"in the style of a detailed anime drawing",
		"as a watercolor painting",
		"in a pixel art style",
		"as a black and white sketch",
		"in a pop-art style like Andy Warhol",
		"in a vintage comic book style",
	},
	"Lighting & Mood": {
		"with dramatic, cinematic lighting",
		"make it look moody",
		"add a cheerful atmosphere",
		"with soft, golden hour lighting",
		"with mysterious, foggy lighting",
		"with neon, cyberpunk lighting",
		"make it bright and sunny",
		"with a spooky, eerie glow",
	},
	"Scene & Background": {
		"Extend the image",
		"change the background to a cyberpunk city",
		"place the subject on Mars",
		"make it nighttime",
		"add rain",
		"change the background to a lush jungle",
		"put them in an underwater scene",
		"change the background to a futuristic space station",
	},
	"Character & Clothing": {
		"Change the clothes",
		"Add tattoos",
		"add a superhero cape",
		"change the clothes to a futuristic sci-fi suit",
		"give the person majestic wings",
		"change the clothes to elegant royal attire",
		"add a fantasy-style helmet",
		"make the person look like a cyborg",
	},
}
