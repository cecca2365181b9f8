package colour

// CoarseName labels an extracted colour with a rough family. Rules are
// checked in order, so a bright yellow is "Light" before it is "Yellow-ish".
func CoarseName(c RGB) string {
	r, g, b := int(c.R), int(c.G), int(c.B)

	switch {
	case r > 200 && g > 200 && b > 200:
		return "Light"
	case r < 50 && g < 50 && b < 50:
		return "Dark"
	case r > g && r > b:
		return "Red-ish"
	case g > r && g > b:
		return "Green-ish"
	case b > r && b > g:
		return "Blue-ish"
	case r > 150 && g > 150 && b < 100:
		return "Yellow-ish"
	case r > 150 && b > 150 && g < 100:
		return "Purple-ish"
	case g > 150 && b > 150 && r < 100:
		return "Cyan-ish"
	default:
		return "Mixed"
	}
}

// HueName gives a generated palette colour a plain hue name.
func HueName(c RGB) string {
	hsv := c.HSV()

	if hsv.S < 0.1 {
		switch {
		case hsv.V > 0.9:
			return "White"
		case hsv.V < 0.1:
			return "Black"
		default:
			return "Gray"
		}
	}

	deg := hsv.H * 360
	switch {
	case deg < 15 || deg >= 345:
		return "Red"
	case deg < 45:
		return "Orange"
	case deg < 75:
		return "Yellow"
	case deg < 150:
		return "Green"
	case deg < 210:
		return "Cyan"
	case deg < 270:
		return "Blue"
	case deg < 330:
		return "Purple"
	default:
		return "Pink"
	}
}
