// Package scan turns HandBrakeCLI --scan reports into typed track
// inventories.
//
// [Parse] is a pure function over the report text; [Scanner] runs the tool
// and feeds its combined output to Parse. The report mixes timestamped
// diagnostics, the libav stream table HandBrake prints while opening the
// file, and HandBrake's own title summary:
//
//	Input #0, matroska,webm, from 'show.s01e01.mkv':
//	    Stream #0:1(jpn): Audio: aac (LC), 48000 Hz, stereo, fltp (default)
//	    Metadata:
//	      title           : Japanese
//	+ title 1:
//	  + audio tracks:
//	    + 1, Japanese (AAC) (2.0 ch) (iso639-2: jpn), 48000Hz, 128000bps
//	  + subtitle tracks:
//	    + 1, English (iso639-2: eng) (Text)(SSA)
//
// Unrecognised lines are skipped, so output from other HandBrake versions
// degrades to fewer parsed fields rather than an error.
package scan
