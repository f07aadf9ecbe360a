package gemini

// Prompt templates sent to Gemini. Placeholders are filled with fmt.Sprintf.

const scriptPrompt = `You are an expert short-form video scriptwriter.
Write a script for a spoken-word video about the following idea:

%s

Requirements:
- Target length: roughly %s seconds of natural speech.
- Structure the script as Hook, Bridge, Golden Nugget, Why To Act (WTA), in that order.
- Write the way people actually talk: short sentences, contractions, no corporate filler.
- Do not include stage directions, camera notes, or section labels.
%s
Return only the script text.`

const voiceStylePrompt = `- Match this creator's voice and delivery style:
%s
`

const humanizePrompt = `Rewrite the following video script so it sounds like natural,
unscripted speech. Keep the meaning and structure. Remove anything that sounds
like marketing copy or AI writing. Keep roughly the same length.

Script:
%s

Return only the rewritten script.`

const shortenPrompt = `Shorten the following video script while keeping its hook,
key insight and call to action intact. Target roughly half the original length.

Script:
%s

Return only the shortened script.`

const hooksPrompt = `Generate %d alternative opening hooks for a short-form video
about the following idea:

%s

Each hook must be a single spoken sentence under 20 words.
Respond with a JSON array of objects, each with the fields
"text" and "template" (the rhetorical pattern used, e.g. "question",
"contrarian", "stat"). Return only JSON.`

const analyzePrompt = `Analyze the following video transcript and break it into the
four structural components of a short-form video script.

Transcript:
%s

Respond with a JSON object with exactly these string fields:
"hook" (the attention-grabbing opening),
"bridge" (the transition that sets up the payoff),
"golden_nugget" (the core insight or value),
"wta" (the why-to-act / call to action).
If a component is absent, use an empty string. Return only JSON.`

const describeVoicePrompt = `Study the following video transcripts from a single creator
and describe their voice and delivery style in a way another writer could imitate.

Transcripts:
%s

Cover tone, pacing, sentence length, vocabulary, recurring phrases and how they
open and close. Write 3-5 sentences of plain prose. Return only the description.`

const audioTranscribePrompt = `Transcribe the spoken audio verbatim.
Return only the transcript text with no commentary, timestamps or labels.`

const videoTranscribePrompt = `Watch the video at the following URL and transcribe
the spoken content verbatim.

%s

After the transcript, do not add anything else. Return only the transcript text.`
