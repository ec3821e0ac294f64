/*
Package markov implements a character-level Markov chain engine for
synthesizing pronounceable, word-like password candidates.

A model is built in a single pass over a normalized natural-language corpus
(Latin and Cyrillic letters only), persisted as JSON so retraining is not
needed on every run, and sampled with an injectable random source so that
generation is reproducible under a fixed seed.

The generated strings optimize for pronounceable shape, not entropy; do not
treat them as cryptographically strong secrets.
*/
package markov
