// seehuhn.de/go/pdfcore - the object model and content reader of a PDF library
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package content

// Op is a content stream operator.
type Op string

// These are the operators defined in ISO 32000-2:2020.
const (
	// General Graphics State
	OpPushGraphicsState    Op = "q"
	OpPopGraphicsState     Op = "Q"
	OpTransform            Op = "cm"
	OpSetLineWidth         Op = "w"
	OpSetLineCap           Op = "J"
	OpSetLineJoin          Op = "j"
	OpSetMiterLimit        Op = "M"
	OpSetLineDash          Op = "d"
	OpSetRenderingIntent   Op = "ri"
	OpSetFlatnessTolerance Op = "i"
	OpSetExtGState         Op = "gs"

	// Path Construction
	OpMoveTo    Op = "m"
	OpLineTo    Op = "l"
	OpCurveTo   Op = "c"
	OpCurveToV  Op = "v"
	OpCurveToY  Op = "y"
	OpClosePath Op = "h"
	OpRectangle Op = "re"

	// Path Painting
	OpStroke                    Op = "S"
	OpCloseAndStroke            Op = "s"
	OpFill                      Op = "f"
	OpFillCompat                Op = "F"
	OpFillEvenOdd               Op = "f*"
	OpFillAndStroke             Op = "B"
	OpFillAndStrokeEvenOdd      Op = "B*"
	OpCloseFillAndStroke        Op = "b"
	OpCloseFillAndStrokeEvenOdd Op = "b*"
	OpEndPath                   Op = "n"

	// Clipping Paths
	OpClipNonZero Op = "W"
	OpClipEvenOdd Op = "W*"

	// Text Objects
	OpTextBegin Op = "BT"
	OpTextEnd   Op = "ET"

	// Text State
	OpTextSetCharacterSpacing  Op = "Tc"
	OpTextSetWordSpacing       Op = "Tw"
	OpTextSetHorizontalScaling Op = "Tz"
	OpTextSetLeading           Op = "TL"
	OpTextSetFont              Op = "Tf"
	OpTextSetRenderingMode     Op = "Tr"
	OpTextSetRise              Op = "Ts"

	// Text Positioning
	OpTextMoveOffset           Op = "Td"
	OpTextMoveOffsetSetLeading Op = "TD"
	OpTextSetMatrix            Op = "Tm"
	OpTextNextLine             Op = "T*"

	// Text Showing
	OpTextShow                       Op = "Tj"
	OpTextShowArray                  Op = "TJ"
	OpTextShowMoveNextLine           Op = "'"
	OpTextShowMoveNextLineSetSpacing Op = "\""

	// Type 3 Fonts
	OpType3SetWidthOnly           Op = "d0"
	OpType3SetWidthAndBoundingBox Op = "d1"

	// Color Spaces
	OpSetStrokeColorSpace Op = "CS"
	OpSetFillColorSpace   Op = "cs"

	// Generic Color
	OpSetStrokeColor  Op = "SC"
	OpSetStrokeColorN Op = "SCN"
	OpSetFillColor    Op = "sc"
	OpSetFillColorN   Op = "scn"

	// Device Colors
	OpSetStrokeGray Op = "G"
	OpSetFillGray   Op = "g"
	OpSetStrokeRGB  Op = "RG"
	OpSetFillRGB    Op = "rg"
	OpSetStrokeCMYK Op = "K"
	OpSetFillCMYK   Op = "k"

	// Shading Patterns
	OpShading Op = "sh"

	// Inline Images
	OpBeginInlineImage Op = "BI"
	OpInlineImageData  Op = "ID"
	OpEndInlineImage   Op = "EI"

	// XObjects
	OpXObject Op = "Do"

	// Marked Content
	OpMarkedContentPoint               Op = "MP"
	OpMarkedContentPointWithProperties Op = "DP"
	OpBeginMarkedContent               Op = "BMC"
	OpBeginMarkedContentWithProperties Op = "BDC"
	OpEndMarkedContent                 Op = "EMC"

	// Compatibility
	OpBeginCompatibility Op = "BX"
	OpEndCompatibility   Op = "EX"
)

// OpUnknown is used in events for keywords which are not operators.
const OpUnknown Op = ""

func (op Op) String() string {
	if op == OpUnknown {
		return "<unknown>"
	}
	return string(op)
}

// variable marks operators which take a variable number of operands.
const variable = -1

// numOperands gives the number of operands each operator expects.
var numOperands = map[Op]int{
	OpPushGraphicsState:    0,
	OpPopGraphicsState:     0,
	OpTransform:            6,
	OpSetLineWidth:         1,
	OpSetLineCap:           1,
	OpSetLineJoin:          1,
	OpSetMiterLimit:        1,
	OpSetLineDash:          2,
	OpSetRenderingIntent:   1,
	OpSetFlatnessTolerance: 1,
	OpSetExtGState:         1,

	OpMoveTo:    2,
	OpLineTo:    2,
	OpCurveTo:   6,
	OpCurveToV:  4,
	OpCurveToY:  4,
	OpClosePath: 0,
	OpRectangle: 4,

	OpStroke:                    0,
	OpCloseAndStroke:            0,
	OpFill:                      0,
	OpFillCompat:                0,
	OpFillEvenOdd:               0,
	OpFillAndStroke:             0,
	OpFillAndStrokeEvenOdd:      0,
	OpCloseFillAndStroke:        0,
	OpCloseFillAndStrokeEvenOdd: 0,
	OpEndPath:                   0,

	OpClipNonZero: 0,
	OpClipEvenOdd: 0,

	OpTextBegin: 0,
	OpTextEnd:   0,

	OpTextSetCharacterSpacing:  1,
	OpTextSetWordSpacing:       1,
	OpTextSetHorizontalScaling: 1,
	OpTextSetLeading:           1,
	OpTextSetFont:              2,
	OpTextSetRenderingMode:     1,
	OpTextSetRise:              1,

	OpTextMoveOffset:           2,
	OpTextMoveOffsetSetLeading: 2,
	OpTextSetMatrix:            6,
	OpTextNextLine:             0,

	OpTextShow:                       1,
	OpTextShowArray:                  1,
	OpTextShowMoveNextLine:           1,
	OpTextShowMoveNextLineSetSpacing: 3,

	OpType3SetWidthOnly:           2,
	OpType3SetWidthAndBoundingBox: 6,

	OpSetStrokeColorSpace: 1,
	OpSetFillColorSpace:   1,

	OpSetStrokeColor:  variable,
	OpSetStrokeColorN: variable,
	OpSetFillColor:    variable,
	OpSetFillColorN:   variable,

	OpSetStrokeGray: 1,
	OpSetFillGray:   1,
	OpSetStrokeRGB:  3,
	OpSetFillRGB:    3,
	OpSetStrokeCMYK: 4,
	OpSetFillCMYK:   4,

	OpShading: 1,

	OpBeginInlineImage: 0,
	OpInlineImageData:  0,
	OpEndInlineImage:   0,

	OpXObject: 1,

	OpMarkedContentPoint:               1,
	OpMarkedContentPointWithProperties: 2,
	OpBeginMarkedContent:               1,
	OpBeginMarkedContentWithProperties: 2,
	OpEndMarkedContent:                 0,

	OpBeginCompatibility: 0,
	OpEndCompatibility:   0,
}

// LookupOp returns the operator for a keyword.
// The second return value is false if the keyword is not an operator.
func LookupOp(keyword string) (Op, bool) {
	op := Op(keyword)
	if _, ok := numOperands[op]; !ok {
		return OpUnknown, false
	}
	return op, true
}

// NumOperands returns the number of operands op expects.
// The result is -1 for the color operators which take a variable number
// of operands, and for unknown operators.
func (op Op) NumOperands() int {
	n, ok := numOperands[op]
	if !ok {
		return variable
	}
	return n
}
